package service

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/cinematch/internal/config"
	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/utils"
	"golang.org/x/sync/singleflight"
)

// CatalogSource 推荐引擎对目录存储的最小依赖
type CatalogSource interface {
	All() ([]model.Movie, error)
}

// snapshot 一次构建产出的向量空间快照
// 发布之后不可变，读取无需加锁
type snapshot struct {
	movies []model.Movie
	index  map[string]int // 归一化标题 -> 行号
	space  *VectorSpace
	sims   [][]float64
}

// RecommenderService 推荐服务
type RecommenderService struct {
	catalog CatalogSource
	cfg     config.EngineConfig
	cache   *utils.RecommendCache[[]model.Recommendation]

	mu   sync.RWMutex
	snap *snapshot
	gen  uint64 // 失效计数，用于识别重建期间目录再次变更
	sf   singleflight.Group
}

// NewRecommenderService 创建推荐服务
func NewRecommenderService(catalog CatalogSource, cfg config.EngineConfig) *RecommenderService {
	if cfg.VocabSize <= 0 {
		cfg.VocabSize = 5000
	}
	if cfg.NgramMax <= 0 {
		cfg.NgramMax = 2
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}

	return &RecommenderService{
		catalog: catalog,
		cfg:     cfg,
		cache:   utils.NewRecommendCache[[]model.Recommendation](cfg.CacheSize, cfg.CacheTTL),
	}
}

// Recommend 返回与查询影片相似的影片，按相似度降序
// query 是目录中的标题（大小写不敏感）；开启自由文本查询时也可以是任意描述文本
func (s *RecommenderService) Recommend(query string, filters model.Filters, limit int) ([]model.Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}
	if limit < 1 {
		limit = 1
	}

	cacheKey := s.cacheKey(query, filters, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		// 返回副本，调用方改动返回切片不会污染缓存
		return append([]model.Recommendation(nil), cached...), nil
	}

	snap, err := s.ensureSnapshot()
	if err != nil {
		return nil, err
	}

	key := normalizeQuery(query)
	var scores []float64
	selfIdx := -1
	if idx, ok := snap.index[key]; ok {
		// 稠密模式：目录内影片直接取预计算矩阵行
		scores = snap.sims[idx]
		selfIdx = idx
	} else if s.cfg.AllowFreeText {
		// 查询模式：用已拟合的词表临时嵌入查询文本，不重新拟合
		scores = snap.space.ScoreAgainstAll(snap.space.Embed(query))
	} else {
		return nil, ErrNotFound
	}

	// 相似度降序，同分保持入库顺序（稳定排序，结果可复现）
	order := make([]int, 0, len(scores))
	for i := range scores {
		if i != selfIdx {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	// 按序流式过滤，凑满 limit 即停；全部筛掉时返回空结果而非错误
	result := make([]model.Recommendation, 0, limit)
	for _, i := range order {
		m := snap.movies[i]
		if selfIdx < 0 && normalizeQuery(m.Title) == key {
			continue // 自由文本恰好等于某标题时同样排除自身
		}
		if !filters.Match(&m) {
			continue
		}
		result = append(result, model.Recommendation{
			Movie:      m,
			Similarity: clampScore(scores[i]),
		})
		if len(result) >= limit {
			break
		}
	}

	s.cache.Set(cacheKey, append([]model.Recommendation(nil), result...))
	return result, nil
}

// Invalidate 目录变更后失效当前快照与结果缓存，下一次查询时同步重建
func (s *RecommenderService) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.gen++
	s.mu.Unlock()
	s.cache.Clear()
	log.Printf("[Recommender] 快照已失效，等待重建")
}

// Warm 立即构建快照（启动预热用）
func (s *RecommenderService) Warm() error {
	_, err := s.ensureSnapshot()
	return err
}

// Stats 当前快照规模（影片数、词表大小），未构建时返回 0
func (s *RecommenderService) Stats() (movies, vocab int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return 0, 0
	}
	return len(s.snap.movies), s.snap.space.VocabSize()
}

// ensureSnapshot 返回当前快照，必要时重建
// singleflight 保证并发请求只触发一次重建；快照整体替换，
// 正在读旧快照的请求不受影响。重建读取目录之后目录又失效过时
// （gen 变化），本次结果已经过期，丢弃并重试，不允许旧快照覆盖失效
func (s *RecommenderService) ensureSnapshot() (*snapshot, error) {
	for {
		s.mu.RLock()
		snap := s.snap
		s.mu.RUnlock()
		if snap != nil {
			return snap, nil
		}

		val, err, _ := s.sf.Do("rebuild", func() (interface{}, error) {
			// 双重检查：排队期间可能已经有请求建好了
			s.mu.RLock()
			cur := s.snap
			startGen := s.gen
			s.mu.RUnlock()
			if cur != nil {
				return cur, nil
			}

			built, err := s.build()
			if err != nil {
				return nil, err
			}

			s.mu.Lock()
			if s.gen != startGen {
				s.mu.Unlock()
				return (*snapshot)(nil), nil
			}
			s.snap = built
			s.mu.Unlock()
			return built, nil
		})
		if err != nil {
			return nil, err
		}
		if snap := val.(*snapshot); snap != nil {
			return snap, nil
		}
	}
}

// build 全量重建向量空间与相似度矩阵
func (s *RecommenderService) build() (*snapshot, error) {
	start := time.Now()

	movies, err := s.catalog.All()
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}

	// 跳过没有任何描述文本的记录
	usable := make([]model.Movie, 0, len(movies))
	docs := make([]string, 0, len(movies))
	for _, m := range movies {
		text := ComposeFeatures(&m)
		if strings.TrimSpace(text) == "" {
			continue
		}
		usable = append(usable, m)
		docs = append(docs, text)
	}
	if len(usable) < 2 {
		return nil, ErrEmptyCatalog
	}

	vectorizer := NewVectorizer(VectorizerConfig{
		MaxFeatures: s.cfg.VocabSize,
		NgramMax:    s.cfg.NgramMax,
	})
	space, err := vectorizer.Fit(docs)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(usable))
	for i, m := range usable {
		key := normalizeQuery(m.Title)
		if _, ok := index[key]; !ok {
			index[key] = i // 入库时已约束唯一，这里保险起见取先入库者
		}
	}

	snap := &snapshot{
		movies: usable,
		index:  index,
		space:  space,
		sims:   space.SimilarityMatrix(),
	}

	log.Printf("[Recommender] 向量空间重建完成: %d 部影片, 词表 %d, 耗时 %v",
		len(usable), space.VocabSize(), time.Since(start))
	return snap, nil
}

// cacheKey 查询 + 过滤条件 + 数量 组成缓存键
func (s *RecommenderService) cacheKey(query string, f model.Filters, limit int) string {
	return fmt.Sprintf("%s|%d-%d|%.2f|%s|%d",
		normalizeQuery(query), f.YearMin, f.YearMax, f.MinRating,
		strings.Join(f.Genres, ","), limit)
}

// normalizeQuery 查询归一化：去首尾空白并转小写
func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
