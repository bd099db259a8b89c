package service

import (
	"strings"

	"github.com/user/cinematch/internal/model"
)

// ComposeFeatures 将影片的描述性字段拼接为一段特征文本
// 字段顺序固定：类型、导演、演员、简介，单空格连接，空字段跳过
// 顺序影响二元词组的构成，历次重建必须保持一致
func ComposeFeatures(m *model.Movie) string {
	parts := make([]string, 0, 4)

	if len(m.Genres) > 0 {
		parts = append(parts, strings.Join(m.Genres, " "))
	}
	if m.Directors != "" {
		parts = append(parts, m.Directors)
	}
	if m.Actors != "" {
		parts = append(parts, m.Actors)
	}
	if m.Summary != "" {
		parts = append(parts, m.Summary)
	}

	return strings.Join(parts, " ")
}
