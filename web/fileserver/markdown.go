package fileserver

import (
	"bytes"
	"time"

	"github.com/caiflower/staticweb/pkg/cache"
	"github.com/caiflower/staticweb/pkg/tools"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer turns Markdown source into HTML. Implementations must be safe for concurrent use.
type Renderer interface {
	Render(source []byte) ([]byte, error)
}

type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (r *MarkdownRenderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CachedRenderer memoizes another Renderer by the md5 of the source, failures are not cached.
type CachedRenderer struct {
	renderer Renderer
	cache    *cache.LocalCache
}

func NewCachedRenderer(renderer Renderer, expire time.Duration) *CachedRenderer {
	return &CachedRenderer{
		renderer: renderer,
		cache:    cache.NewLocalCache(expire),
	}
}

func (c *CachedRenderer) Render(source []byte) ([]byte, error) {
	key := tools.MD5Bytes(source)
	if v, ok := c.cache.Get(key); ok {
		return v.([]byte), nil
	}

	html, err := c.renderer.Render(source)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, html)
	return html, nil
}
