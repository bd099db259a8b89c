package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/cinematch/internal/model"
)

func TestComposeFeatures(t *testing.T) {
	t.Run("字段按固定顺序拼接", func(t *testing.T) {
		m := &model.Movie{
			Genres:    []string{"Sci-Fi", "Thriller"},
			Directors: "Christopher Nolan",
			Actors:    "Leonardo DiCaprio",
			Summary:   "A dream heist.",
		}
		assert.Equal(t,
			"Sci-Fi Thriller Christopher Nolan Leonardo DiCaprio A dream heist.",
			ComposeFeatures(m))
	})

	t.Run("空字段跳过", func(t *testing.T) {
		m := &model.Movie{
			Genres:  []string{"Drama"},
			Summary: "A quiet story.",
		}
		assert.Equal(t, "Drama A quiet story.", ComposeFeatures(m))
	})

	t.Run("全部为空", func(t *testing.T) {
		assert.Equal(t, "", ComposeFeatures(&model.Movie{Title: "Untitled"}))
	})
}
