package service

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// VectorizerConfig 向量化配置
type VectorizerConfig struct {
	MaxFeatures int                 // 词表上限，<=0 表示不限制
	NgramMax    int                 // n-gram 上限，2 表示一元词 + 二元词组
	StopWords   map[string]struct{} // 停用词表，nil 时使用内置英文停用词
}

// Vectorizer TF-IDF 向量化器
type Vectorizer struct {
	cfg VectorizerConfig
}

// NewVectorizer 创建向量化器
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	if cfg.NgramMax <= 0 {
		cfg.NgramMax = 2
	}
	if cfg.StopWords == nil {
		cfg.StopWords = englishStopWords
	}
	return &Vectorizer{cfg: cfg}
}

// sparseVector 稀疏向量，索引升序排列
type sparseVector struct {
	indices []int
	values  []float64
}

// VectorSpace 拟合后的向量空间：词表、IDF 权重与全部文档行
// 构建完成后不可变，目录变更时整体重建，不做增量更新
type VectorSpace struct {
	vectorizer *Vectorizer
	vocab      map[string]int
	idf        []float64
	rows       []sparseVector
	docCount   int
}

// Tokenize 切词：按字母/数字连续段切分并转小写，丢弃单字符词元
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// terms 切词、去停用词后生成 n-gram 词元序列
// 先去停用词再拼二元词组，与原始权重行为保持一致
func (v *Vectorizer) terms(text string) []string {
	words := make([]string, 0)
	for _, tok := range Tokenize(text) {
		if _, stop := v.cfg.StopWords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}

	terms := make([]string, 0, len(words)*2)
	terms = append(terms, words...)
	if v.cfg.NgramMax >= 2 {
		for i := 0; i+1 < len(words); i++ {
			terms = append(terms, words[i]+" "+words[i+1])
		}
	}
	return terms
}

// Fit 在整个语料上拟合向量空间
// 语料不足两篇返回 ErrEmptyCatalog，词表为空返回 ErrVocabularyBuild
func (v *Vectorizer) Fit(docs []string) (*VectorSpace, error) {
	if len(docs) < 2 {
		return nil, ErrEmptyCatalog
	}

	// 统计语料词频与文档频率
	docTerms := make([][]string, len(docs))
	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		terms := v.terms(doc)
		docTerms[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			termCount[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}
	if len(termCount) == 0 {
		return nil, ErrVocabularyBuild
	}

	// 词表截断：按语料词频取前 MaxFeatures，同频按字典序，保证结果可重复
	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.cfg.MaxFeatures > 0 && len(terms) > v.cfg.MaxFeatures {
		terms = terms[:v.cfg.MaxFeatures]
	}

	// 词表内部按字典序编号
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	// 平滑 IDF：ln((1+N)/(1+df)) + 1
	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	space := &VectorSpace{
		vectorizer: v,
		vocab:      vocab,
		idf:        idf,
		docCount:   len(docs),
	}
	space.rows = make([]sparseVector, len(docs))
	for i, terms := range docTerms {
		space.rows[i] = space.vectorize(terms)
	}

	return space, nil
}

// Embed 用已拟合的词表嵌入一段新文本（不重新拟合，词表外的词被忽略）
func (s *VectorSpace) Embed(text string) sparseVector {
	return s.vectorize(s.vectorizer.terms(text))
}

// vectorize 词元计数 → TF-IDF 加权 → L2 归一化
// 归一化后余弦相似度退化为点积
func (s *VectorSpace) vectorize(terms []string) sparseVector {
	counts := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := s.vocab[t]; ok {
			counts[idx]++
		}
	}

	vec := sparseVector{
		indices: make([]int, 0, len(counts)),
		values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.indices = append(vec.indices, idx)
	}
	sort.Ints(vec.indices)

	var norm float64
	for _, idx := range vec.indices {
		w := counts[idx] * s.idf[idx]
		vec.values = append(vec.values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec.values {
			vec.values[i] /= norm
		}
	}

	return vec
}

// VocabSize 词表大小
func (s *VectorSpace) VocabSize() int {
	return len(s.vocab)
}

// DocCount 文档数
func (s *VectorSpace) DocCount() int {
	return s.docCount
}
