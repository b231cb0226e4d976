package pagination

// HasMore reports whether active items exist beyond the returned window.
//
// Examples:
//   - offset 0, returned 10, total 15 -> true
//   - offset 10, returned 5, total 15 -> false
//   - offset 20, returned 0, total 15 -> false
func HasMore(offset, returned int, total int64) bool {
	return int64(offset)+int64(returned) < total
}
