package model

import (
	"time"

	"github.com/lib/pq"
)

// Movie 电影记录（目录中的一条影片）
type Movie struct {
	ID        int            `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	TitleKey  string         `json:"-" db:"title_key" gorm:"uniqueIndex"` // 小写标题，保证大小写不敏感唯一
	Year      int            `json:"year,omitempty" db:"year"`
	Rating    float64        `json:"rating,omitempty" db:"rating" gorm:"index"`
	Genres    pq.StringArray `json:"genres,omitempty" db:"genres" gorm:"type:text[]"`
	Directors string         `json:"directors,omitempty" db:"directors"`
	Actors    string         `json:"actors,omitempty" db:"actors"`
	Summary   string         `json:"summary" db:"summary"`
	Poster    string         `json:"poster,omitempty" db:"poster"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// HasYear 是否有年份信息（0 表示未知）
func (m *Movie) HasYear() bool {
	return m.Year > 0
}

// HasRating 是否有评分信息（0 表示未知）
func (m *Movie) HasRating() bool {
	return m.Rating > 0
}
