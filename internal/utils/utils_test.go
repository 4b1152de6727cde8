package utils

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "buyer@example.com", "USER")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "buyer@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, "USER", GetUserRoleFromContext(ctx))
	assert.False(t, IsAdmin(ctx))
}

func TestUserContextMissing(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "", GetUserRoleFromContext(context.Background()))
}

func TestInternalContext(t *testing.T) {
	assert.False(t, IsInternalRequest(context.Background()))
	assert.True(t, IsInternalRequest(SetInternalContext(context.Background())))
}

func TestGenerateOrderCode(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{6}-\d{3}-\d{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := GenerateOrderCode()
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	// collisions within one run are vanishingly unlikely
	assert.Greater(t, len(seen), 45)
}
