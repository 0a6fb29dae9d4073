package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"
	"erp/internal/service"
)

func newCategoryService(t *testing.T) (service.CategoryService, *repository.MockCategoryRepository, *recordingAudit) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockCategoryRepository(ctrl)
	audit := &recordingAudit{}
	return service.NewCategoryService(repo, passthroughTx{}, audit, logger.NewNop()), repo, audit
}

func TestCategoryService_Allocate(t *testing.T) {
	companyID := uuid.New()
	lookup := repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Retail", CompanyID: &companyID}

	t.Run("Sequence", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		category := &model.NumberingCategory{
			ID:           uuid.New(),
			Kind:         model.CategoryKindBilling,
			CategoryName: "Retail",
			RangeStart:   1000,
			RangeEnd:     ptr(int64(1999)),
			CompanyID:    companyID,
		}

		repo.EXPECT().FindForUpdate(gomock.Any(), lookup).
			DoAndReturn(func(context.Context, repository.CategoryLookup) (*model.NumberingCategory, error) {
				c := *category
				return &c, nil
			}).Times(3)
		repo.EXPECT().IncrementIssued(gomock.Any(), category.ID).
			DoAndReturn(func(context.Context, uuid.UUID) error {
				category.IssuedCount++
				return nil
			}).Times(3)

		var got []string
		for i := 0; i < 3; i++ {
			alloc, err := svc.Allocate(context.Background(), lookup)
			require.NoError(t, err)
			got = append(got, alloc.DocNumber())
		}

		assert.Equal(t, []string{"1000", "1001", "1002"}, got)
		assert.Equal(t, int64(3), category.IssuedCount)
	})

	t.Run("Exhausted", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		category := &model.NumberingCategory{
			ID:          uuid.New(),
			RangeStart:  1,
			RangeEnd:    ptr(int64(2)),
			IssuedCount: 2,
		}
		repo.EXPECT().FindForUpdate(gomock.Any(), lookup).Return(category, nil)

		_, err := svc.Allocate(context.Background(), lookup)

		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.Equal(t, "Document number range exceeded for this category.", ierr.DisplayMessage(err))
	})

	t.Run("LastNumberInRange", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		category := &model.NumberingCategory{
			ID:          uuid.New(),
			RangeStart:  1,
			RangeEnd:    ptr(int64(2)),
			IssuedCount: 1,
		}
		repo.EXPECT().FindForUpdate(gomock.Any(), lookup).Return(category, nil)
		repo.EXPECT().IncrementIssued(gomock.Any(), category.ID).Return(nil)

		alloc, err := svc.Allocate(context.Background(), lookup)

		require.NoError(t, err)
		assert.Equal(t, int64(2), alloc.Number)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		repo.EXPECT().FindForUpdate(gomock.Any(), lookup).
			Return(nil, ierr.NewError("record not found").Mark(ierr.ErrNotFound))

		_, err := svc.Allocate(context.Background(), lookup)

		require.Error(t, err)
		assert.True(t, ierr.IsNotFound(err))
		assert.Equal(t, "Category not found", ierr.DisplayMessage(err))
	})
}

func TestCategoryService_CreateCategory(t *testing.T) {
	companyID := uuid.New().String()

	tests := []struct {
		name      string
		kind      string
		req       service.CreateCategoryRequest
		setupMock func(m *repository.MockCategoryRepository)
		check     func(t *testing.T, err error)
	}{
		{
			name: "Success",
			kind: model.CategoryKindInvoice,
			req: service.CreateCategoryRequest{
				CategoryName: " Export ",
				RangeStart:   ptr(int64(500)),
				RangeEnd:     ptr(int64(600)),
				CompanyID:    companyID,
			},
			setupMock: func(m *repository.MockCategoryRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *model.NumberingCategory) error {
						assert.Equal(t, "Export", c.CategoryName)
						assert.Equal(t, model.CategoryKindInvoice, c.Kind)
						c.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "UnknownKind",
			kind: "RECEIPT",
			req: service.CreateCategoryRequest{
				CategoryName: "Export",
				RangeStart:   ptr(int64(1)),
				RangeEnd:     ptr(int64(2)),
				CompanyID:    companyID,
			},
			check: func(t *testing.T, err error) {
				assert.True(t, ierr.IsValidation(err))
			},
		},
		{
			name: "EndBeforeStart",
			kind: model.CategoryKindBilling,
			req: service.CreateCategoryRequest{
				CategoryName: "Export",
				RangeStart:   ptr(int64(10)),
				RangeEnd:     ptr(int64(5)),
				CompanyID:    companyID,
			},
			check: func(t *testing.T, err error) {
				assert.True(t, ierr.IsValidation(err))
				assert.Equal(t, "rangeEnd must be greater than or equal to rangeStart", ierr.DisplayMessage(err))
			},
		},
		{
			name: "Duplicate",
			kind: model.CategoryKindBilling,
			req: service.CreateCategoryRequest{
				CategoryName: "Retail",
				RangeStart:   ptr(int64(1)),
				RangeEnd:     ptr(int64(100)),
				CompanyID:    companyID,
			},
			setupMock: func(m *repository.MockCategoryRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(ierr.NewError("duplicate key").Mark(ierr.ErrAlreadyExists))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, ierr.IsAlreadyExists(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newCategoryService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			_, err := svc.CreateCategory(context.Background(), tt.kind, tt.req)
			tt.check(t, err)
		})
	}
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	newIssued := func() *model.NumberingCategory {
		return &model.NumberingCategory{
			ID:           uuid.New(),
			Kind:         model.CategoryKindBilling,
			CategoryName: "Retail",
			RangeStart:   100,
			RangeEnd:     ptr(int64(200)),
			IssuedCount:  10, // last issued 109
		}
	}

	t.Run("StartFrozenAfterIssuance", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		category := newIssued()
		repo.EXPECT().FindByIDForUpdate(gomock.Any(), model.CategoryKindBilling, category.ID).Return(category, nil)

		_, err := svc.UpdateCategory(context.Background(), model.CategoryKindBilling, category.ID.String(),
			service.UpdateCategoryRequest{RangeStart: ptr(int64(150))})

		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})

	t.Run("EndBelowLastIssued", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		category := newIssued()
		repo.EXPECT().FindByIDForUpdate(gomock.Any(), model.CategoryKindBilling, category.ID).Return(category, nil)

		_, err := svc.UpdateCategory(context.Background(), model.CategoryKindBilling, category.ID.String(),
			service.UpdateCategoryRequest{RangeEnd: ptr(int64(105))})

		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
		assert.Equal(t, "rangeEnd cannot be lower than the last issued number 109", ierr.DisplayMessage(err))
	})

	t.Run("ExtendRange", func(t *testing.T) {
		svc, repo, audit := newCategoryService(t)
		category := newIssued()
		repo.EXPECT().FindByIDForUpdate(gomock.Any(), model.CategoryKindBilling, category.ID).Return(category, nil)
		repo.EXPECT().Update(gomock.Any(), category).Return(nil)

		res, err := svc.UpdateCategory(context.Background(), model.CategoryKindBilling, category.ID.String(),
			service.UpdateCategoryRequest{RangeEnd: ptr(int64(109)), CategoryName: ptr("Retail B2C")})

		require.NoError(t, err)
		assert.Equal(t, "Retail B2C", res.CategoryName)
		assert.Equal(t, int64(110), res.NextNumber)
		assert.True(t, res.Exhausted)
		assert.Equal(t, []string{model.ActionUpdateCategory}, audit.actions)
	})

	t.Run("FreeChangesBeforeIssuance", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		category := newIssued()
		category.IssuedCount = 0
		repo.EXPECT().FindByIDForUpdate(gomock.Any(), model.CategoryKindBilling, category.ID).Return(category, nil)
		repo.EXPECT().Update(gomock.Any(), category).Return(nil)

		res, err := svc.UpdateCategory(context.Background(), model.CategoryKindBilling, category.ID.String(),
			service.UpdateCategoryRequest{RangeStart: ptr(int64(10)), RangeEnd: ptr(int64(20))})

		require.NoError(t, err)
		assert.Equal(t, int64(10), res.RangeStart)
		assert.Equal(t, int64(10), res.NextNumber)
	})

	t.Run("RunsUnderRowLockInTransaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockCategoryRepository(ctrl)
		tx := repository.NewMockTransactionManager(ctrl)
		svc := service.NewCategoryService(repo, tx, &recordingAudit{}, logger.NewNop())

		type txMarker struct{}
		category := newIssued()
		tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
				return fn(context.WithValue(ctx, txMarker{}, true))
			})
		inTx := gomock.Cond(func(ctx any) bool {
			return ctx.(context.Context).Value(txMarker{}) == true
		})
		repo.EXPECT().FindByIDForUpdate(inTx, model.CategoryKindBilling, category.ID).Return(category, nil)
		repo.EXPECT().Update(inTx, category).Return(nil)

		res, err := svc.UpdateCategory(context.Background(), model.CategoryKindBilling, category.ID.String(),
			service.UpdateCategoryRequest{Prefix: ptr("RT")})

		require.NoError(t, err)
		assert.Equal(t, "RT", res.Prefix)
		assert.Equal(t, int64(10), res.IssuedCount)
	})

	t.Run("InvalidID", func(t *testing.T) {
		svc, _, _ := newCategoryService(t)

		_, err := svc.GetCategory(context.Background(), model.CategoryKindBilling, "not-a-uuid")

		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}
