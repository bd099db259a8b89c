package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string
	SiteName    string
	SiteUrl     string

	// 推荐引擎配置
	Engine EngineConfig
}

// EngineConfig 推荐引擎配置
type EngineConfig struct {
	VocabSize     int           // 词表上限（TF-IDF max features）
	NgramMax      int           // n-gram 上限，2 表示一元词 + 二元词组
	AllowFreeText bool          // 是否允许自由文本查询（标题不在目录中时临时嵌入）
	CacheSize     int           // 推荐结果缓存条数
	CacheTTL      time.Duration // 推荐结果缓存有效期
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinematch")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", "your-secret-key-change-in-production")

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	vocabSize, _ := strconv.Atoi(getEnv("RECO_VOCAB_SIZE", "5000"))
	ngramMax, _ := strconv.Atoi(getEnv("RECO_NGRAM_MAX", "2"))
	cacheSize, _ := strconv.Atoi(getEnv("RECO_CACHE_SIZE", "1000"))
	cacheTTLMin, _ := strconv.Atoi(getEnv("RECO_CACHE_TTL_MINUTES", "30"))

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		AppSecret:   appSecret,
		DatabaseURL: dbURL,
		JWTExpiry:   time.Duration(expiryHours) * time.Hour,
		Port:        getEnv("PORT", "5005"),
		SiteName:    getEnv("SITE_NAME", "CineMatch"),
		SiteUrl:     getEnv("SITE_URL", "http://localhost:5005"),
		Engine: EngineConfig{
			VocabSize:     vocabSize,
			NgramMax:      ngramMax,
			AllowFreeText: getEnv("RECO_ALLOW_FREE_TEXT", "false") == "true",
			CacheSize:     cacheSize,
			CacheTTL:      time.Duration(cacheTTLMin) * time.Minute,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
