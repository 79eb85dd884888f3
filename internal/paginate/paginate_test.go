package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                string
		total, size, page   int
		wantPage, wantPages int
		wantStart, wantEnd  int
	}{
		{"first page", 40, 15, 1, 1, 3, 0, 15},
		{"last partial page", 40, 15, 3, 3, 3, 30, 40},
		{"page past end clamps", 40, 15, 9, 3, 3, 30, 40},
		{"page zero clamps", 40, 15, 0, 1, 3, 0, 15},
		{"negative page clamps", 40, 15, -2, 1, 3, 0, 15},
		{"empty list has one page", 0, 5, 1, 1, 1, 0, 0},
		{"exact multiple", 10, 5, 2, 2, 2, 5, 10},
		{"default size", 20, 0, 2, 2, 2, 15, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Paginate(tt.total, tt.size, tt.page)
			assert.Equal(t, tt.wantPage, w.Page)
			assert.Equal(t, tt.wantPages, w.Pages)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
		})
	}
}

func TestSlicePartitionsList(t *testing.T) {
	for _, total := range []int{0, 1, 4, 5, 6, 23} {
		for _, size := range []int{1, 5, 7} {
			items := make([]int, total)
			for i := range items {
				items[i] = i
			}
			_, w := Slice(items, size, 1)

			var joined []int
			for p := 1; p <= w.Pages; p++ {
				page, pw := Slice(items, size, p)
				assert.LessOrEqual(t, len(page), size)
				assert.Equal(t, p, pw.Page)
				joined = append(joined, page...)
			}
			if total == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, items, joined, "total=%d size=%d", total, size)
		}
	}
}

func TestSliceEmpty(t *testing.T) {
	page, w := Slice([]string{}, 5, 1)
	assert.Empty(t, page)
	assert.Equal(t, 1, w.Pages)
	assert.Equal(t, 1, w.Page)
}
