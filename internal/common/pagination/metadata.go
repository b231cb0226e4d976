package pagination

// Metadata describes one page of a list result.
type Metadata struct {
	TotalCount int64
	HasMore    bool
	Limit      int
	Offset     int
}

// NewMetadata builds Metadata for a page of returned items.
func NewMetadata(params Params, returned int, total int64) Metadata {
	return Metadata{
		TotalCount: total,
		HasMore:    HasMore(params.Offset, returned, total),
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
}
