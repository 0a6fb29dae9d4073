package pagination_test

import (
	"net/http/httptest"
	"testing"

	"erp/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{name: "defaults", query: "", want: pagination.Params{Page: 1, Limit: 20, Offset: 0}},
		{name: "explicit", query: "?page=3&limit=10", want: pagination.Params{Page: 3, Limit: 10, Offset: 20}},
		{name: "limit capped", query: "?page=2&limit=500", want: pagination.Params{Page: 2, Limit: 100, Offset: 100}},
		{name: "negative page", query: "?page=-4&limit=5", want: pagination.Params{Page: 1, Limit: 5, Offset: 0}},
		{name: "malformed", query: "?page=abc", want: pagination.Params{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.Parse(c))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, pagination.Params{Page: 1, Limit: 20, Offset: 0}, pagination.Normalize(0, 0))
	assert.Equal(t, pagination.Params{Page: 4, Limit: 25, Offset: 75}, pagination.Normalize(4, 25))
}
