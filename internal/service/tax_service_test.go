package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	ierr "erp/internal/errors"
	"erp/internal/model"
	"erp/internal/repository"
	"erp/internal/service"
)

func TestTaxService_Create(t *testing.T) {
	companyID := uuid.New()

	tests := []struct {
		name       string
		req        service.TaxRequest
		setup      func(m *repository.MockTaxRepository)
		wantStatus int
		wantAudit  []string
	}{
		{
			name: "created and audited",
			req: service.TaxRequest{
				TaxCode: "G18", TaxName: "GST 18", CGST: "9", SGST: "9",
				CompanyID: companyID.String(), FinancialYear: "2024-25",
			},
			setup: func(m *repository.MockTaxRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tax *model.Tax) error {
						tax.ID = uuid.New()
						return nil
					})
			},
			wantAudit: []string{model.ActionCreateTax},
		},
		{
			name:       "invalid company id",
			req:        service.TaxRequest{TaxCode: "G5", TaxName: "GST 5", CompanyID: "acme", FinancialYear: "2024-25"},
			setup:      func(m *repository.MockTaxRepository) {},
			wantStatus: 400,
		},
		{
			name:       "blank financial year",
			req:        service.TaxRequest{TaxCode: "G5", TaxName: "GST 5", CompanyID: companyID.String(), FinancialYear: " "},
			setup:      func(m *repository.MockTaxRepository) {},
			wantStatus: 400,
		},
		{
			name: "duplicate code",
			req:  service.TaxRequest{TaxCode: "G5", TaxName: "GST 5", CompanyID: companyID.String(), FinancialYear: "2024-25"},
			setup: func(m *repository.MockTaxRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(ierr.NewError("duplicate key").Mark(ierr.ErrAlreadyExists))
			},
			wantStatus: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := repository.NewMockTaxRepository(ctrl)
			tt.setup(repo)
			audit := &recordingAudit{}

			res, err := service.NewTaxService(repo, audit).CreateTax(context.Background(), tt.req)
			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, ierr.HTTPStatusFromErr(err))
				assert.Empty(t, audit.actions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "G18", res.TaxCode)
			assert.Equal(t, companyID.String(), res.CompanyID)
			assert.Equal(t, tt.wantAudit, audit.actions)
		})
	}
}

func TestTaxService_DeleteMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockTaxRepository(ctrl)
	id := uuid.New()
	repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, errNotFound())

	audit := &recordingAudit{}
	err := service.NewTaxService(repo, audit).DeleteTax(context.Background(), id.String())
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
	assert.Empty(t, audit.actions)
}
