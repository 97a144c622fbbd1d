package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	chapterMD = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	chapterPolicy = bluemonday.UGCPolicy()

	// Comments come from users: strip every tag, keep the text.
	commentPolicy = bluemonday.StrictPolicy()
)

func init() {
	chapterPolicy.AllowImages()
	chapterPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	chapterPolicy.RequireNoReferrerOnLinks(true)
}

// RenderChapterHTML converts a chapter's Markdown body into sanitized HTML.
// On a conversion error the raw source is sanitized and returned instead,
// so a malformed chapter still displays as text.
func RenderChapterHTML(source string) string {
	var buf bytes.Buffer
	if err := chapterMD.Convert([]byte(source), &buf); err != nil {
		return chapterPolicy.Sanitize(source)
	}
	return string(chapterPolicy.SanitizeBytes(buf.Bytes()))
}

// SanitizeCommentBody strips markup from user-submitted comment text.
func SanitizeCommentBody(body string) string {
	return commentPolicy.Sanitize(body)
}
