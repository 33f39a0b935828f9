package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want Kind
	}{
		{name: "not found", in: gorm.ErrRecordNotFound, want: KindNotFound},
		{name: "wrapped not found", in: fmt.Errorf("load: %w", gorm.ErrRecordNotFound), want: KindNotFound},
		{name: "duplicate", in: gorm.ErrDuplicatedKey, want: KindConflict},
		{name: "foreign key", in: gorm.ErrForeignKeyViolated, want: KindConflict},
		{name: "driver failure", in: errors.New("dial tcp: connection refused"), want: KindTransient},
		{name: "already typed", in: Unauthorized("op", "nope"), want: KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(FromStore("op", tt.in)))
		})
	}

	assert.NoError(t, FromStore("op", nil))
	assert.ErrorIs(t, FromStore("op", context.Canceled), context.Canceled)
}

func TestKindHelpers(t *testing.T) {
	err := fmt.Errorf("outer: %w", Transient("get", errors.New("boom")))

	assert.True(t, IsRetryable(err))
	assert.True(t, Is(err, KindTransient))
	assert.False(t, IsRetryable(NotFound("get", "missing")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("op", "x")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Unauthorized("op", "x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("op", "x", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Transient("op", errors.New("x"))))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Invalid("op", errors.New("x"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}

func TestErrorString(t *testing.T) {
	e := Conflict("UpdateMemberTier", "tier belongs to another platform", nil)
	assert.Equal(t, "UpdateMemberTier: tier belongs to another platform", e.Error())

	wrapped := Transient("GetTiers", errors.New("timeout"))
	assert.Equal(t, "GetTiers: store unavailable: timeout", wrapped.Error())
	assert.Equal(t, "store unavailable", PublicMessage(wrapped))
	assert.Equal(t, "bad title", PublicMessage(Invalid("op", errors.New("bad title"))))
	assert.Equal(t, "internal error", PublicMessage(errors.New("secret detail")))
}
