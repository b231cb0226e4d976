package pagination_test

import (
	"testing"

	"sports-cms/internal/common/pagination"
)

func TestHasMore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset, returned int
		total            int64
		want             bool
	}{
		{0, 10, 15, true},
		{10, 5, 15, false},
		{20, 0, 15, false},
		{0, 0, 0, false},
		{0, 10, 10, false},
	}

	for _, tt := range tests {
		if got := pagination.HasMore(tt.offset, tt.returned, tt.total); got != tt.want {
			t.Errorf("HasMore(%d, %d, %d) = %v, want %v", tt.offset, tt.returned, tt.total, got, tt.want)
		}
	}
}

func TestNewMetadata(t *testing.T) {
	t.Parallel()

	meta := pagination.NewMetadata(pagination.Params{Limit: 10, Offset: 10}, 5, 15)
	want := pagination.Metadata{TotalCount: 15, HasMore: false, Limit: 10, Offset: 10}
	if meta != want {
		t.Errorf("NewMetadata() = %+v, want %+v", meta, want)
	}
}
