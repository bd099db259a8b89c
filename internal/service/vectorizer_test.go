package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("按非字母数字切分并转小写", func(t *testing.T) {
		got := Tokenize("Hello, World! 42-Go")
		assert.Equal(t, []string{"hello", "world", "42", "go"}, got)
	})

	t.Run("丢弃单字符词元", func(t *testing.T) {
		got := Tokenize("a I x ok")
		assert.Equal(t, []string{"ok"}, got)
	})

	t.Run("空文本", func(t *testing.T) {
		assert.Empty(t, Tokenize("   ,,, ! "))
	})
}

func TestVectorizerTerms(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{NgramMax: 2})

	t.Run("先去停用词再拼二元词组", func(t *testing.T) {
		got := v.terms("the quick brown fox")
		assert.Equal(t, []string{
			"quick", "brown", "fox",
			"quick brown", "brown fox",
		}, got)
	})

	t.Run("只取一元词", func(t *testing.T) {
		uni := NewVectorizer(VectorizerConfig{NgramMax: 1})
		got := uni.terms("quick brown fox")
		assert.Equal(t, []string{"quick", "brown", "fox"}, got)
	})
}

func TestFit(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{})

	t.Run("语料不足两篇", func(t *testing.T) {
		_, err := v.Fit([]string{"only one document here"})
		assert.ErrorIs(t, err, ErrEmptyCatalog)

		_, err = v.Fit(nil)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("全是停用词时词表为空", func(t *testing.T) {
		_, err := v.Fit([]string{"the and of", "to in on"})
		assert.ErrorIs(t, err, ErrVocabularyBuild)
	})

	t.Run("词表截断到上限", func(t *testing.T) {
		capped := NewVectorizer(VectorizerConfig{MaxFeatures: 3, NgramMax: 1})
		space, err := capped.Fit([]string{
			"alpha beta gamma delta",
			"alpha beta gamma epsilon",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, space.VocabSize())
	})

	t.Run("文档行为 L2 归一化向量", func(t *testing.T) {
		space, err := v.Fit([]string{
			"space travel adventure",
			"ocean deep exploration",
		})
		require.NoError(t, err)
		for _, row := range space.rows {
			var norm float64
			for _, val := range row.values {
				norm += val * val
			}
			assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
		}
	})
}

func TestFitDeterminism(t *testing.T) {
	docs := []string{
		"dream heist inside the mind",
		"simulated reality and the mind of a hacker",
		"love story on a sinking ship",
	}

	// 两次独立拟合必须产出完全一致的词表与矩阵
	a, err := NewVectorizer(VectorizerConfig{}).Fit(docs)
	require.NoError(t, err)
	b, err := NewVectorizer(VectorizerConfig{}).Fit(docs)
	require.NoError(t, err)

	assert.Equal(t, a.vocab, b.vocab)
	assert.Equal(t, a.idf, b.idf)
	assert.Equal(t, a.SimilarityMatrix(), b.SimilarityMatrix())
}

func TestEmbed(t *testing.T) {
	space, err := NewVectorizer(VectorizerConfig{}).Fit([]string{
		"space travel adventure rocket",
		"deep ocean exploration submarine",
	})
	require.NoError(t, err)

	t.Run("词表外的词被忽略", func(t *testing.T) {
		vec := space.Embed("zzzz qqqq wwww")
		assert.Empty(t, vec.indices)
		for _, s := range space.ScoreAgainstAll(vec) {
			assert.Zero(t, s)
		}
	})

	t.Run("命中词表的查询得到正相似度", func(t *testing.T) {
		vec := space.Embed("rocket travel")
		scores := space.ScoreAgainstAll(vec)
		require.Len(t, scores, 2)
		assert.Greater(t, scores[0], scores[1])
		assert.Greater(t, scores[0], 0.0)
	})
}

func TestSimilarityMatrix(t *testing.T) {
	space, err := NewVectorizer(VectorizerConfig{}).Fit([]string{
		"dream thief steals secrets from the mind",
		"hacker discovers his reality is a dream",
		"romance aboard a doomed ocean liner",
	})
	require.NoError(t, err)

	sims := space.SimilarityMatrix()
	require.Len(t, sims, 3)

	for i := range sims {
		// 对角线是自身相似度
		assert.InDelta(t, 1.0, sims[i][i], 1e-9)
		for j := range sims[i] {
			// 对称且落在 [0,1]
			assert.Equal(t, sims[i][j], sims[j][i])
			assert.GreaterOrEqual(t, sims[i][j], 0.0)
			assert.LessOrEqual(t, sims[i][j], 1.0)
		}
	}
}
