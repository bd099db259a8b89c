package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltersMatch(t *testing.T) {
	movie := Movie{
		Title: "Inception", Year: 2010, Rating: 8.8,
		Genres: []string{"Sci-Fi", "Thriller"},
	}
	unknown := Movie{Title: "Mystery"} // 年份、评分、类型全部缺失

	tests := []struct {
		name   string
		filter Filters
		movie  Movie
		want   bool
	}{
		{"零值过滤条件放行一切", Filters{}, movie, true},
		{"年份下界命中", Filters{YearMin: 2010}, movie, true},
		{"年份下界不满足", Filters{YearMin: 2011}, movie, false},
		{"年份上界不满足", Filters{YearMax: 2009}, movie, false},
		{"年份区间命中", Filters{YearMin: 2000, YearMax: 2020}, movie, true},
		{"最低评分命中", Filters{MinRating: 8.8}, movie, true},
		{"最低评分不满足", Filters{MinRating: 9.0}, movie, false},
		{"类型有交集", Filters{Genres: []string{"Thriller", "Drama"}}, movie, true},
		{"类型无交集", Filters{Genres: []string{"Romance"}}, movie, false},
		{"缺失年份放行", Filters{YearMin: 2020, YearMax: 2021}, unknown, true},
		{"缺失评分放行", Filters{MinRating: 9.9}, unknown, true},
		{"缺失类型放行", Filters{Genres: []string{"Romance"}}, unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(&tt.movie))
		})
	}
}
