package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"erp/internal/middleware"
	"erp/pkg/response"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

func newRouter(h routeRegistrar) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h.RegisterRoutes(r.Group(""))
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w, res
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}
