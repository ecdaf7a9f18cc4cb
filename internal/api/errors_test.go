package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		detail string
		want   Kind
	}{
		{"validation", 400, "quantity must be at least 1", KindValidation},
		{"duplicate cart entry", 400, "already in cart", KindConflict},
		{"duplicate wishlist entry", 400, "Product is already in wishlist", KindConflict},
		{"unauthorized", 401, "", KindUnauthorized},
		{"forbidden", 403, "account blocked", KindForbidden},
		{"not found", 404, "product not found", KindNotFound},
		{"conflict status", 409, "user already exists", KindConflict},
		{"server error", 500, "internal error", KindServer},
		{"bad gateway", 502, "", KindServer},
		{"teapot", 418, "", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, kindFromResponse(tt.status, tt.detail))
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	base := &Error{Kind: KindNotFound, Status: 404, Op: "GET /products/9/"}
	assert.Equal(t, KindNotFound, KindOf(base))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("load product: %w", base)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	withDetail := &Error{Kind: KindConflict, Status: 400, Detail: "already in cart", Op: "POST /cart/"}
	assert.Equal(t, "POST /cart/: already in cart (conflict)", withDetail.Error())

	wrapped := &Error{Kind: KindNetwork, Op: "GET /cart/", Err: errors.New("connection refused")}
	assert.Equal(t, "GET /cart/: connection refused", wrapped.Error())
	assert.ErrorContains(t, fmt.Errorf("outer: %w", wrapped), "connection refused")

	bare := &Error{Kind: KindServer, Status: 500, Op: "GET /orders/"}
	assert.Equal(t, "GET /orders/: status 500 (server)", bare.Error())
}
