package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "erp/internal/errors"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "NotFound", err: ierr.NewError("x").Mark(ierr.ErrNotFound), want: http.StatusNotFound},
		{name: "AlreadyExists", err: ierr.NewError("x").Mark(ierr.ErrAlreadyExists), want: http.StatusConflict},
		{name: "Validation", err: ierr.NewError("x").Mark(ierr.ErrValidation), want: http.StatusBadRequest},
		{name: "InvalidOperation", err: ierr.NewError("x").Mark(ierr.ErrInvalidOperation), want: http.StatusBadRequest},
		{name: "PermissionDenied", err: ierr.NewError("x").Mark(ierr.ErrPermissionDenied), want: http.StatusForbidden},
		{name: "Unauthenticated", err: ierr.NewError("x").Mark(ierr.ErrUnauthenticated), want: http.StatusUnauthorized},
		{name: "Database", err: ierr.NewError("x").Mark(ierr.ErrDatabase), want: http.StatusInternalServerError},
		{name: "Sentinel", err: ierr.ErrNotFound, want: http.StatusNotFound},
		{name: "Unmarked", err: stderrors.New("boom"), want: http.StatusInternalServerError},
		{
			name: "OutermostMarkWins",
			err: ierr.WithError(ierr.NewError("tax missing").Mark(ierr.ErrNotFound)).
				WithHint("Referenced tax does not exist").
				Mark(ierr.ErrValidation),
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ierr.HTTPStatusFromErr(tt.err))
		})
	}
}

func TestDisplayMessage(t *testing.T) {
	withHint := ierr.NewError("category 42 exhausted").
		WithHint("Document number range exceeded for this category.").
		Mark(ierr.ErrValidation)
	assert.Equal(t, "Document number range exceeded for this category.", ierr.DisplayMessage(withHint))

	noHint := ierr.NewError("plain failure").Mark(ierr.ErrSystem)
	assert.Contains(t, ierr.DisplayMessage(noHint), "plain failure")
}

func TestPredicates(t *testing.T) {
	err := ierr.WithError(stderrors.New("row missing")).
		WithHint("Employee not found").
		Mark(ierr.ErrNotFound)

	assert.True(t, ierr.IsNotFound(err))
	assert.False(t, ierr.IsValidation(err))
	assert.False(t, ierr.IsAlreadyExists(err))
	assert.True(t, ierr.IsValidation(ierr.NewError("v").Mark(ierr.ErrValidation)))
	assert.True(t, ierr.IsInvalidOperation(ierr.NewError("o").Mark(ierr.ErrInvalidOperation)))
	assert.True(t, ierr.IsDatabase(ierr.NewError("d").Mark(ierr.ErrDatabase)))
}
