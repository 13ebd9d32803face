package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Unauthenticated("auth", "no token"), http.StatusUnauthorized},
		{Forbidden("issue", "not yours"), http.StatusForbidden},
		{NotFound("issue", "Issue %d not found", 4), http.StatusNotFound},
		{Validation("issue", "title is required"), http.StatusBadRequest},
		{Dependency("issue", errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("update issue: %w", Dependency("issue", base))

	assert.Equal(t, KindDependencyFailure, KindOf(err))
	assert.True(t, errors.Is(err, base))
	assert.True(t, IsKind(fmt.Errorf("x: %w", Forbidden("t", "m")), KindForbidden))
	assert.False(t, IsKind(errors.New("plain"), KindForbidden))
	assert.Equal(t, KindDependencyFailure, KindOf(errors.New("plain")))
	assert.Equal(t, "not_found: Issue 4 not found [type: issue]", NotFound("issue", "Issue %d not found", 4).Error())
}
