package service_test

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/mock/gomock"

	"erp/internal/repository"
)

// recordingAudit captures audit actions instead of persisting them.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Record(_ context.Context, action, _, _ string, _ interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

// passthroughTx runs the callback on the caller's context.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func expectTx(m *repository.MockTransactionManager) {
	m.EXPECT().
		RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
}

func ptr[T any](v T) *T {
	return &v
}

func jsonUnmarshal(raw string, v interface{}) error {
	return json.Unmarshal([]byte(raw), v)
}
