// Package markdown 将文章 Markdown 原文渲染为 HTML。
package markdown

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Renderer Markdown 渲染接口
type Renderer interface {
	Render(text string) string
}

// Options 渲染选项
type Options struct {
	// Sanitize 为 true 时过滤不安全的 HTML，默认保留原始 HTML
	Sanitize bool
}

// BlackfridayRenderer 基于 blackfriday 的渲染实现
type BlackfridayRenderer struct {
	extensions blackfriday.Extensions
	policy     *bluemonday.Policy
}

// New 创建渲染器
func New(opts Options) *BlackfridayRenderer {
	r := &BlackfridayRenderer{
		extensions: blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs,
	}
	if opts.Sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

// Render 渲染 Markdown，空内容返回空字符串
func (r *BlackfridayRenderer) Render(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	output := blackfriday.Run([]byte(text), blackfriday.WithExtensions(r.extensions))
	if r.policy != nil {
		output = r.policy.SanitizeBytes(output)
	}
	return string(output)
}
