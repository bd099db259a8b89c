package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/cinematch/internal/utils"
)

// PagePreview 外部影片页面的抓取结果，用于投稿表单预填
type PagePreview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ScraperService 页面抓取服务
type ScraperService struct {
	client *utils.HTTPClient
}

// NewScraperService 创建抓取服务
func NewScraperService() *ScraperService {
	return &ScraperService{
		client: utils.NewHTTPClient(10 * time.Second),
	}
}

// FetchPreview 抓取页面并提取 Open Graph 元信息
func (s *ScraperService) FetchPreview(url string) (*PagePreview, error) {
	body, err := s.client.GetBody(url)
	if err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}

	preview := &PagePreview{
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		Image:       metaContent(doc, "og:image"),
	}
	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if preview.Description == "" {
		desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
		preview.Description = strings.TrimSpace(desc)
	}

	if preview.Title == "" && preview.Description == "" {
		return nil, fmt.Errorf("页面中没有可用的影片信息")
	}
	return preview, nil
}

// metaContent 读取指定 property 的 meta 标签内容
func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
	return strings.TrimSpace(content)
}
