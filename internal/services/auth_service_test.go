package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/apperr"
	"equipstore/internal/repos"
	"equipstore/internal/services"
)

func TestAuthLoginAndVerify(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	auth := services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour)
	ctx := context.Background()

	u, tok, err := auth.Login(ctx, "ADA@equipstore.test", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "u-ada", u.ID)

	cur, err := auth.CurrentUser(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-ada", cur.ID)

	_, _, err = auth.Login(ctx, "ada@equipstore.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = auth.Login(ctx, "ghost@equipstore.test", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	other := services.NewAuthService(repos.NewUserRepo(db), "other-secret", time.Hour)
	_, err = other.CurrentUser(ctx, tok)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	auth.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.Verify(tok)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestAuthRegisterDuplicate(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	auth := services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour)

	u, tok, err := auth.Register(context.Background(), "Chidi", "chidi@example.ng", "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", u.Role)
	assert.NotEmpty(t, tok)

	_, _, err = auth.Register(context.Background(), "Chidi", "CHIDI@example.ng", "Str0ng!pass")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}
