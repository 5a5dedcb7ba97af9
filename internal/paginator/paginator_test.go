package paginator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		count, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{13, 10, 2},
		{21, 10, 3},
		{5, 0, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.count, tt.perPage).NumPages, "count=%d perPage=%d", tt.count, tt.perPage)
	}
}

func TestNumber(t *testing.T) {
	p := New(13, 10)
	tests := map[string]int{
		"":    1,
		"abc": 1,
		"1.5": 1,
		"1":   1,
		"2":   2,
		"3":   2,
		"999": 2,
		"0":   2,
		"-1":  2,
	}
	for raw, want := range tests {
		assert.Equal(t, want, p.Number(raw), "raw=%q", raw)
	}
}

// slicePage pages through an in-memory slice.
func slicePage[T any](items []T, perPage int, raw string) Page[T] {
	p := New(len(items), perPage)
	number := p.Number(raw)
	start := min(p.Offset(number), len(items))
	end := min(start+p.PerPage, len(items))
	return NewPage(p, number, items[start:end])
}

func TestNewPage_ThirteenItems(t *testing.T) {
	items := seq(13)

	first := slicePage(items, 10, "")
	assert.Len(t, first.Objects, 10)
	assert.Equal(t, 1, first.Number)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)
	assert.Equal(t, 2, first.NextPageNumber)

	second := slicePage(items, 10, "2")
	want := Page[int]{
		Objects:            []int{11, 12, 13},
		Number:             2,
		NumPages:           2,
		Count:              13,
		HasNext:            false,
		HasPrevious:        true,
		HasOtherPages:      true,
		PreviousPageNumber: 1,
		StartIndex:         11,
		EndIndex:           13,
		PageRange:          []int{1, 2},
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPage_Empty(t *testing.T) {
	page := slicePage([]string(nil), 10, "5")
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.NotNil(t, page.Objects)
	assert.Empty(t, page.Objects)
	assert.False(t, page.HasOtherPages)
	assert.Zero(t, page.StartIndex)
	assert.Zero(t, page.EndIndex)
}

func TestNewPage_OutOfRangeGivesLastPage(t *testing.T) {
	page := slicePage(seq(25), 10, "42")
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, page.Objects)
}
