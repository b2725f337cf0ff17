package response

import (
	"errors"
	"net/http"
	"testing"

	"rentalhub/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.NotFoundf("rent %d", 1), http.StatusNotFound},
		{"conflict", apperr.Conflictf("state append"), http.StatusConflict},
		{"validation", apperr.Validationf("size must be positive"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := FromError(tc.err)
			assert.Equal(t, tc.want, status)
			assert.Equal(t, tc.want, body.StatusCode)
			assert.Equal(t, "error", body.Status)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestSuccessWithPagination(t *testing.T) {
	res := SuccessWithPagination(http.StatusOK, []int{1, 2, 3}, 2, 20, 45)
	assert.Equal(t, "success", res.Status)
	if assert.NotNil(t, res.Meta) {
		assert.Equal(t, 2, res.Meta.Page)
		assert.Equal(t, int64(45), res.Meta.Total)
		assert.Equal(t, int64(3), res.Meta.TotalPages)
	}

	// A zero limit must not divide by zero.
	res = SuccessWithPagination(http.StatusOK, nil, 1, 0, 10)
	assert.Equal(t, int64(0), res.Meta.TotalPages)
}
