package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/cinematch/internal/model"
	"gorm.io/gorm"
)

// ErrTitleExists 同名影片已存在（大小写不敏感比较）
var ErrTitleExists = errors.New("同名影片已存在")

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// All 按入库顺序返回全部影片
func (r *MovieRepository) All() ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.Order("id ASC").Find(&movies).Error
	return movies, err
}

// FindByID 根据 ID 查找影片
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByTitle 根据标题查找影片（大小写不敏感）
func (r *MovieRepository) FindByTitle(title string) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("title_key = ?", NormalizeTitle(title)).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Append 追加影片
// 标题在大小写不敏感比较下必须唯一，冲突时返回 ErrTitleExists
func (r *MovieRepository) Append(movie *model.Movie) error {
	movie.TitleKey = NormalizeTitle(movie.Title)
	if movie.TitleKey == "" {
		return errors.New("标题不能为空")
	}
	movie.CreatedAt = time.Now()

	existing, err := r.FindByTitle(movie.Title)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrTitleExists
	}

	if err := r.db.Create(movie).Error; err != nil {
		// 并发投稿绕过上面的预检查时，由唯一索引兜底
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return err
	}
	return nil
}

// isUniqueViolation 唯一约束冲突（SQLSTATE 23505）
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Suggest 标题联想（前缀匹配）
func (r *MovieRepository) Suggest(keyword string, limit int) ([]string, error) {
	var titles []string
	err := r.db.Model(&model.Movie{}).
		Where("title_key LIKE ?", escapeLike(NormalizeTitle(keyword))+"%").
		Order("id ASC").
		Limit(limit).
		Pluck("title", &titles).Error
	return titles, err
}

// Count 影片总数
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}

// AllGenres 列出目录中出现过的全部类型标签
func (r *MovieRepository) AllGenres() ([]string, error) {
	var genres []string
	err := r.db.Raw("SELECT DISTINCT unnest(genres) FROM movies ORDER BY 1").Scan(&genres).Error
	return genres, err
}

// NormalizeTitle 标题归一化（查找/唯一性比较用）
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 模式元字符，用户输入只做字面前缀匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
