package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "erp/internal/errors"
	"erp/internal/handler"
	"erp/internal/middleware"
	"erp/internal/model"
	"erp/internal/service"
)

type stubTaxService struct {
	service.TaxService
	created []service.TaxRequest
}

func (s *stubTaxService) GetTaxes(context.Context, service.TaxListFilter) ([]service.TaxResponse, error) {
	return []service.TaxResponse{{ID: "t1", TaxCode: "GST", TaxName: "Goods and services"}}, nil
}

func (s *stubTaxService) GetTax(_ context.Context, id string) (service.TaxResponse, error) {
	return service.TaxResponse{}, ierr.NewErrorf("tax %s missing", id).
		WithHint("Tax not found").
		Mark(ierr.ErrNotFound)
}

func (s *stubTaxService) CreateTax(_ context.Context, req service.TaxRequest) (service.TaxResponse, error) {
	s.created = append(s.created, req)
	return service.TaxResponse{ID: "t2", TaxCode: req.TaxCode, TaxName: req.TaxName}, nil
}

func TestTaxHandler(t *testing.T) {
	validTax := map[string]string{
		"taxCode":       "GST",
		"taxName":       "Goods and services",
		"cgst":          "9",
		"sgst":          "9",
		"companyId":     "5f0e3a4c-8d2b-4f31-9a55-0c7f4a1d2e33",
		"financialYear": "2024-25",
	}

	t.Run("ListIsPublic", func(t *testing.T) {
		r := newRouter(handler.NewTaxHandler(&stubTaxService{}, middleware.NewAuth(testSecret, true)))

		w, res := doRequest(t, r, http.MethodGet, "/api/taxes", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "success", res.Status)
	})

	t.Run("NotFoundMapsTo404", func(t *testing.T) {
		r := newRouter(handler.NewTaxHandler(&stubTaxService{}, middleware.NewAuth(testSecret, false)))

		w, res := doRequest(t, r, http.MethodGet, "/api/taxes/abc", nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "Tax not found", res.Error)
	})

	t.Run("CreateRequiresToken", func(t *testing.T) {
		svc := &stubTaxService{}
		r := newRouter(handler.NewTaxHandler(svc, middleware.NewAuth(testSecret, true)))

		w, _ := doRequest(t, r, http.MethodPost, "/api/taxes", validTax, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, svc.created)
	})

	t.Run("CreateRejectsStaff", func(t *testing.T) {
		svc := &stubTaxService{}
		r := newRouter(handler.NewTaxHandler(svc, middleware.NewAuth(testSecret, true)))

		w, _ := doRequest(t, r, http.MethodPost, "/api/taxes", validTax, signToken(t, model.RoleStaff))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, svc.created)
	})

	t.Run("CreateAsManager", func(t *testing.T) {
		svc := &stubTaxService{}
		r := newRouter(handler.NewTaxHandler(svc, middleware.NewAuth(testSecret, true)))

		w, res := doRequest(t, r, http.MethodPost, "/api/taxes", validTax, signToken(t, model.RoleManager))

		assert.Equal(t, http.StatusCreated, w.Code, res.Error)
		assert.Len(t, svc.created, 1)
	})

	t.Run("CreateOpenWhenAuthDisabled", func(t *testing.T) {
		svc := &stubTaxService{}
		r := newRouter(handler.NewTaxHandler(svc, middleware.NewAuth(testSecret, false)))

		w, _ := doRequest(t, r, http.MethodPost, "/api/taxes", validTax, "")

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("TaxCodeTooLong", func(t *testing.T) {
		svc := &stubTaxService{}
		r := newRouter(handler.NewTaxHandler(svc, middleware.NewAuth(testSecret, false)))
		body := map[string]string{}
		for k, v := range validTax {
			body[k] = v
		}
		body["taxCode"] = "GST18"

		w, res := doRequest(t, r, http.MethodPost, "/api/taxes", body, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, res.Error, "Invalid request payload")
		assert.Empty(t, svc.created)
	})
}
