package pagination

// Params is a resolved limit/offset pair, safe to hand to a repository.
type Params struct {
	Limit  int
	Offset int
}

// Resolve turns optional client values into Params.
//
// Rules:
//   - nil or non-positive limit -> config.DefaultLimit
//   - limit above config.MaxLimit -> config.MaxLimit
//   - nil or negative offset -> 0
//
// Out-of-range values are corrected, never rejected.
func Resolve(limit, offset *int, config Config) Params {
	p := Params{Limit: config.DefaultLimit}
	if limit != nil && *limit > 0 {
		p.Limit = *limit
	}
	if p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	if offset != nil && *offset > 0 {
		p.Offset = *offset
	}
	return p
}
