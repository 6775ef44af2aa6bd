package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func ids(services []Service) []int64 {
	out := make([]int64, len(services))
	for i, s := range services {
		out[i] = s.ID
	}
	return out
}

var fixtures = []Service{
	{ID: 1, Price: 50, TotalRating: 4.5, RatingCount: 10, Active: true},
	{ID: 2, Price: 20, TotalRating: 3.9, RatingCount: 40, Active: true},
	{ID: 3, Price: 80, TotalRating: 5.0, RatingCount: 2, Active: false},
	{ID: 4, Price: 35, TotalRating: 4.0, RatingCount: 10, Active: true},
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"active only", Filter{}, []int64{1, 2, 4}},
		{"price asc", Filter{Sort: SortPriceAsc}, []int64{2, 4, 1}},
		{"price desc", Filter{Sort: SortPriceDesc}, []int64{1, 4, 2}},
		{"rating desc", Filter{Sort: SortRatingDesc}, []int64{1, 4, 2}},
		{"popular", Filter{Sort: SortPopular}, []int64{2, 1, 4}},
		{"price range", Filter{MinPrice: ptr(30), MaxPrice: ptr(60)}, []int64{1, 4}},
		{"min rating", Filter{MinRating: ptr(4)}, []int64{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(fixtures)))
		})
	}
}

func TestBestServices(t *testing.T) {
	assert.Equal(t, []int64{1, 4}, ids(BestServices(fixtures)))
}

func TestFilterValidate(t *testing.T) {
	assert.Error(t, Filter{MinPrice: ptr(10), MaxPrice: ptr(5)}.Validate())
	assert.Error(t, Filter{MinRating: ptr(6)}.Validate())
	assert.NoError(t, Filter{MinPrice: ptr(5), MaxPrice: ptr(10)}.Validate())
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("POPULAR")
	require.NoError(t, err)
	assert.Equal(t, SortPopular, o)

	_, err = ParseSortOrder("newest")
	assert.Error(t, err)
}

func TestNewRatingStats(t *testing.T) {
	s := NewRatingStats(3, map[int]int{5: 3, 4: 1, 9: 4})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 4.8, s.Average)
	assert.Len(t, s.Distribution, 5)
	assert.Equal(t, 0, s.Distribution[1])

	empty := NewRatingStats(3, nil)
	assert.Zero(t, empty.Average)
}
