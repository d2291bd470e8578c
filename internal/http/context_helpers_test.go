package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	// No session
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}

	// With session
	sess := &domainauth.Session{ID: "abc", Email: "user@example.com"}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)
}

func TestSetSessionInContext_NilSession(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
}

func TestGetSessionFromContext(t *testing.T) {
	assert.Nil(t, GetSessionFromContext(context.Background()))

	sess := &domainauth.Session{ID: "abc"}
	ctx := SetSessionInContext(context.Background(), sess)
	assert.Equal(t, sess, GetSessionFromContext(ctx))
}

func TestIsAdminUser(t *testing.T) {
	// No session => not admin
	assert.False(t, IsAdminUser(context.Background()))

	// Regular user => not admin
	user := &domainauth.Session{ID: "u1"}
	assert.False(t, IsAdminUser(SetSessionInContext(context.Background(), user)))

	// Admin session => admin
	admin := &domainauth.Session{ID: "a1", Admin: true}
	assert.True(t, IsAdminUser(SetSessionInContext(context.Background(), admin)))
}
