package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageServer(html string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
}

func TestFetchPreview(t *testing.T) {
	t.Run("提取 Open Graph 元信息", func(t *testing.T) {
		srv := newPageServer(`<html><head>
			<meta property="og:title" content="Inception (2010)">
			<meta property="og:description" content="A thief who steals secrets through dreams.">
			<meta property="og:image" content="https://img.example.com/inception.jpg">
		</head><body></body></html>`)
		defer srv.Close()

		preview, err := NewScraperService().FetchPreview(srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "Inception (2010)", preview.Title)
		assert.Equal(t, "A thief who steals secrets through dreams.", preview.Description)
		assert.Equal(t, "https://img.example.com/inception.jpg", preview.Image)
	})

	t.Run("缺少 og 标签时回退到 title 和 description", func(t *testing.T) {
		srv := newPageServer(`<html><head>
			<title>  The Matrix  </title>
			<meta name="description" content="A hacker discovers reality is a simulation.">
		</head><body></body></html>`)
		defer srv.Close()

		preview, err := NewScraperService().FetchPreview(srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "The Matrix", preview.Title)
		assert.Equal(t, "A hacker discovers reality is a simulation.", preview.Description)
		assert.Empty(t, preview.Image)
	})

	t.Run("页面没有任何可用信息", func(t *testing.T) {
		srv := newPageServer(`<html><head></head><body><p>nothing here</p></body></html>`)
		defer srv.Close()

		_, err := NewScraperService().FetchPreview(srv.URL)
		assert.Error(t, err)
	})

	t.Run("非 200 响应", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewScraperService().FetchPreview(srv.URL)
		assert.Error(t, err)
	})
}
