package service

// dot 两个 L2 归一化稀疏向量的点积，即余弦相似度
func dot(a, b sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.indices) && j < len(b.indices) {
		switch {
		case a.indices[i] == b.indices[j]:
			sum += a.values[i] * b.values[j]
			i++
			j++
		case a.indices[i] < b.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// clampScore 裁剪到 [0,1]，防止浮点误差越界
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// SimilarityMatrix 预计算稠密 N×N 余弦相似度矩阵
// O(N²) 的空间和时间在目录规模（几十到几千）下可以接受
func (s *VectorSpace) SimilarityMatrix() [][]float64 {
	n := len(s.rows)
	sims := make([][]float64, n)
	for i := range sims {
		sims[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		sims[i][i] = clampScore(dot(s.rows[i], s.rows[i]))
		for j := i + 1; j < n; j++ {
			v := clampScore(dot(s.rows[i], s.rows[j]))
			sims[i][j] = v
			sims[j][i] = v
		}
	}
	return sims
}

// ScoreAgainstAll 单个向量对全部文档行的相似度
func (s *VectorSpace) ScoreAgainstAll(vec sparseVector) []float64 {
	scores := make([]float64, len(s.rows))
	for i, row := range s.rows {
		scores[i] = clampScore(dot(vec, row))
	}
	return scores
}
