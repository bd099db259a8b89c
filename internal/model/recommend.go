package model

// Filters 推荐查询的过滤条件（零值表示不限制）
// 候选影片缺失某个属性时（年份 0、评分 0、类型为空），
// 视为未知，对应过滤条件直接放行。
type Filters struct {
	YearMin   int      `json:"year_min"`
	YearMax   int      `json:"year_max"`
	MinRating float64  `json:"min_rating"`
	Genres    []string `json:"genres"`
}

// Match 判断影片是否满足全部过滤条件
func (f Filters) Match(m *Movie) bool {
	if m.HasYear() {
		if f.YearMin > 0 && m.Year < f.YearMin {
			return false
		}
		if f.YearMax > 0 && m.Year > f.YearMax {
			return false
		}
	}

	if f.MinRating > 0 && m.HasRating() && m.Rating < f.MinRating {
		return false
	}

	// 类型白名单：有交集即可
	if len(f.Genres) > 0 && len(m.Genres) > 0 {
		hit := false
		for _, want := range f.Genres {
			for _, g := range m.Genres {
				if g == want {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if !hit {
			return false
		}
	}

	return true
}

// Recommendation 一条推荐结果
type Recommendation struct {
	Movie      Movie   `json:"movie"`
	Similarity float64 `json:"similarity"` // [0,1]，越大越相似
}
