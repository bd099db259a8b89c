package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/cinematch/internal/config"
	"github.com/user/cinematch/internal/middleware"
	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/repository"
	"github.com/user/cinematch/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos       *repository.Repositories
	Config      *config.Config
	Recommender *service.RecommenderService
	Scraper     *service.ScraperService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 创建推荐服务（目录读取走影片仓库）
	recommender := service.NewRecommenderService(repos.Movie, cfg.Engine)

	// 创建页面抓取服务
	scraper := service.NewScraperService()

	return &Handler{
		Repos:       repos,
		Config:      cfg,
		Recommender: recommender,
		Scraper:     scraper,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// ==================== 公开页面 ====================

// Home 首页：影片选择、过滤条件与投稿入口
func (h *Handler) Home(c *gin.Context) {
	movies, err := h.Repos.Movie.All()
	if err != nil {
		movies = nil
	}

	genres, _ := h.Repos.Movie.AllGenres()
	movieCount, vocabSize := h.Recommender.Stats()

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":      h.Config.SiteName + " - 猜你喜欢的电影",
		"Movies":     movies,
		"Genres":     genres,
		"MovieCount": movieCount,
		"VocabSize":  vocabSize,
	}))
}

// MoviePage 影片详情页，附带相似推荐
func (h *Handler) MoviePage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.render404(c)
		return
	}

	movie, err := h.Repos.Movie.FindByID(id)
	if err != nil || movie == nil {
		h.render404(c)
		return
	}

	// 详情页默认展示 6 条相似推荐，失败时降级为空列表
	recs, err := h.Recommender.Recommend(movie.Title, model.Filters{}, 6)
	if err != nil {
		recs = nil
	}

	c.HTML(http.StatusOK, "movie.html", h.RenderData(c, gin.H{
		"Title":           movie.Title + " - " + h.Config.SiteName,
		"Movie":           movie,
		"Recommendations": recs,
	}))
}

// render404 404 页面
func (h *Handler) render404(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "页面未找到 - " + h.Config.SiteName,
	}))
}

// ==================== 认证页面 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "登录 - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	if redirect == "" {
		redirect = "/"
	}

	// 查找用户
	user, err := h.Repos.User.FindByEmail(email)
	if err != nil || user == nil {
		h.renderLoginError(c, "邮箱或密码错误")
		return
	}

	// 验证密码
	if !h.Repos.User.CheckPassword(user, password) {
		h.renderLoginError(c, "邮箱或密码错误")
		return
	}

	// 生成 JWT 并写入会话
	if err := h.signIn(c, user); err != nil {
		h.renderLoginError(c, "登录失败，请重试")
		return
	}

	c.Redirect(http.StatusFound, redirect)
}

// renderLoginError 带错误信息的登录页
func (h *Handler) renderLoginError(c *gin.Context, msg string) {
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title": "登录 - " + h.Config.SiteName,
		"Error": msg,
	}))
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "注册 - " + h.Config.SiteName,
	}))
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	// 验证
	if password != confirmPassword {
		h.renderRegisterError(c, "两次输入的密码不一致")
		return
	}

	if len(password) < 6 {
		h.renderRegisterError(c, "密码至少需要 6 个字符")
		return
	}

	// 检查邮箱是否已存在
	existing, _ := h.Repos.User.FindByEmail(email)
	if existing != nil {
		h.renderRegisterError(c, "该邮箱已被注册")
		return
	}

	// 创建用户
	// 默认截取邮箱 @ 符号前的内容作为用户名
	username := email
	if parts := strings.Split(email, "@"); len(parts) > 0 {
		username = parts[0]
	}

	user, err := h.Repos.User.Create(email, username, password)
	if err != nil {
		h.renderRegisterError(c, "注册失败，请重试")
		return
	}

	// 注册即登录
	if err := h.signIn(c, user); err != nil {
		h.renderRegisterError(c, "注册成功，但自动登录失败，请手动登录")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// renderRegisterError 带错误信息的注册页
func (h *Handler) renderRegisterError(c *gin.Context, msg string) {
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "注册 - " + h.Config.SiteName,
		"Error": msg,
	}))
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// signIn 设置 JWT Cookie 并把用户信息写入 Session
func (h *Handler) signIn(c *gin.Context, user *model.User) error {
	token, err := h.generateToken(user)
	if err != nil {
		return err
	}

	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	return session.Save()
}

// generateToken 生成 JWT
func (h *Handler) generateToken(user *model.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.Config.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Config.AppSecret))
}
