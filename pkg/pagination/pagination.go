package pagination

import (
	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is one page of a list request.
type Params struct {
	Page   int `form:"page"`
	Limit  int `form:"limit"`
	Offset int `form:"-"`
}

// Parse reads page and limit from the query string. Missing or malformed
// values fall back to the defaults instead of failing the request.
func Parse(c *gin.Context) Params {
	var p Params
	if err := c.ShouldBindQuery(&p); err != nil {
		p = Params{}
	}
	return Normalize(p.Page, p.Limit)
}

// Normalize clamps page and limit into range and derives the offset.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
