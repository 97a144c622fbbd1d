package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams reads ?page= and ?pageSize= with sane bounds. Pages are
// 1-based; the returned offset feeds straight into the query.
func PageParams(c *gin.Context, defaultSize, maxSize int) (page, pageSize, offset int) {
	page = 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}

	pageSize = defaultSize
	if s, err := strconv.Atoi(c.Query("pageSize")); err == nil && s > 0 {
		pageSize = s
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	return page, pageSize, (page - 1) * pageSize
}

// HasMore is the terminal-page signal: a full page means there may be more,
// a short page means this was the last one.
func HasMore(fetched, pageSize int) bool {
	return fetched == pageSize
}
