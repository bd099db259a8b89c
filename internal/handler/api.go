package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/repository"
	"github.com/user/cinematch/internal/service"
	"github.com/user/cinematch/internal/utils"
)

// Recommend 推荐 API
// q 是目录中的标题（大小写不敏感）；配置开启自由文本查询时也可以是任意描述
// 过滤参数：year_min / year_max / min_rating / genres（逗号分隔），均可省略
func (h *Handler) Recommend(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.BadRequest(c, "查询内容不能为空")
		return
	}

	filters := model.Filters{}
	filters.YearMin, _ = strconv.Atoi(c.DefaultQuery("year_min", "0"))
	filters.YearMax, _ = strconv.Atoi(c.DefaultQuery("year_max", "0"))
	filters.MinRating, _ = strconv.ParseFloat(c.DefaultQuery("min_rating", "0"), 64)
	if genres := strings.TrimSpace(c.Query("genres")); genres != "" {
		for _, g := range strings.Split(genres, ",") {
			if g = strings.TrimSpace(g); g != "" {
				filters.Genres = append(filters.Genres, g)
			}
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if limit < 1 {
		limit = 8
	}
	if limit > 50 {
		limit = 50
	}

	recs, err := h.Recommender.Recommend(query, filters, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuery):
			utils.BadRequest(c, "查询内容不能为空")
		case errors.Is(err, service.ErrNotFound):
			utils.NotFound(c, "目录中没有这部影片，可以先投稿添加")
		case errors.Is(err, service.ErrEmptyCatalog), errors.Is(err, service.ErrVocabularyBuild):
			utils.UnprocessableEntity(c, "目录中可用影片不足，暂时无法推荐")
		default:
			log.Printf("[API] 推荐失败: %v", err)
			utils.InternalServerError(c, "推荐服务暂时不可用")
		}
		return
	}

	// 过滤后为空是正常结果，返回空列表
	utils.Success(c, gin.H{
		"query":   query,
		"count":   len(recs),
		"results": recs,
	})
}

// AddMovieRequest 投稿请求
type AddMovieRequest struct {
	Title     string   `json:"title" binding:"required,max=200"`
	Summary   string   `json:"summary" binding:"required,min=50"`
	Genres    []string `json:"genres" binding:"omitempty,max=10"`
	Directors string   `json:"directors" binding:"omitempty,max=200"`
	Actors    string   `json:"actors" binding:"omitempty,max=500"`
	Year      int      `json:"year" binding:"omitempty,gte=1888,lte=2100"`
	Rating    float64  `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Poster    string   `json:"poster" binding:"omitempty,url"`
}

// AddMovie 投稿新影片（需要登录）
// 入库成功后失效推荐快照，下一次查询触发全量重建
func (h *Handler) AddMovie(c *gin.Context) {
	var req AddMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数有误：标题必填，简介至少 50 个字符")
		return
	}

	movie := &model.Movie{
		Title:     strings.TrimSpace(req.Title),
		Summary:   strings.TrimSpace(req.Summary),
		Genres:    req.Genres,
		Directors: strings.TrimSpace(req.Directors),
		Actors:    strings.TrimSpace(req.Actors),
		Year:      req.Year,
		Rating:    req.Rating,
		Poster:    req.Poster,
	}

	if err := h.Repos.Movie.Append(movie); err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			utils.Conflict(c, "这部影片已经在目录中了")
			return
		}
		log.Printf("[API] 影片入库失败: %v", err)
		utils.InternalServerError(c, "保存失败，请重试")
		return
	}

	// 目录变了：推荐快照与轻量缓存一并失效
	h.Recommender.Invalidate()
	utils.CacheClear()

	log.Printf("[API] 新影片入库: %s (id=%d)", movie.Title, movie.ID)
	utils.SuccessWithMessage(c, "影片已加入目录", movie)
}

// MovieSuggest 标题联想
func (h *Handler) MovieSuggest(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("kw"))
	if keyword == "" {
		utils.BadRequest(c, "搜索关键词不能为空")
		return
	}

	cacheKey := "suggest:" + repository.NormalizeTitle(keyword)
	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	titles, err := h.Repos.Movie.Suggest(keyword, 10)
	if err != nil {
		log.Printf("[API] 标题联想失败: %v", err)
		utils.InternalServerError(c, "联想服务暂时不可用")
		return
	}

	utils.CacheSet(cacheKey, titles, time.Minute)
	utils.Success(c, titles)
}

// PagePreview 抓取外部影片页面，预填投稿表单（需要登录）
func (h *Handler) PagePreview(c *gin.Context) {
	pageURL := strings.TrimSpace(c.Query("url"))
	if pageURL == "" || (!strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://")) {
		utils.BadRequest(c, "请提供合法的页面地址")
		return
	}

	preview, err := h.Scraper.FetchPreview(pageURL)
	if err != nil {
		log.Printf("[API] 页面抓取失败: %v", err)
		utils.BadRequest(c, "无法从该页面提取影片信息")
		return
	}

	utils.Success(c, preview)
}

// ProxyImage 海报图片代理
func (h *Handler) ProxyImage(c *gin.Context) {
	targetURL := c.Query("url")
	if targetURL == "" {
		utils.BadRequest(c, "URL 不能为空")
		return
	}

	req, err := http.NewRequest("GET", targetURL, nil)
	if err != nil {
		utils.InternalServerError(c, "创建请求失败")
		return
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		utils.InternalServerError(c, "请求图片失败")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Status(resp.StatusCode)
		return
	}

	c.DataFromReader(http.StatusOK, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, nil)
}
