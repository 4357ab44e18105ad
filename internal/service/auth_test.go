package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/repository"
)

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	created, err := svc.SignUp(ctx, "nina", "n@x.com", "pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "nina", created.Username)
	require.Equal(t, "n@x.com", created.Email)
	require.Equal(t, "USER", created.Role)
	require.NotEqual(t, "pw123456", created.PasswordHash)

	signedIn, err := svc.SignIn(ctx, "n@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, created.ID, signedIn.ID)
}

func TestSignUpNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	created, err := svc.SignUp(ctx, "nina", "  N@X.Com ", "pw123456")
	require.NoError(t, err)
	require.Equal(t, "n@x.com", created.Email)

	signedIn, err := svc.SignIn(ctx, "N@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, created.ID, signedIn.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	_, err := svc.SignUp(ctx, "nina", "n@x.com", "pw123456")
	require.NoError(t, err)

	// Different username, same email.
	_, err = svc.SignUp(ctx, "othername", "n@x.com", "pw123456")
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSignUpDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	_, err := svc.SignUp(ctx, "nina", "n@x.com", "pw123456")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "nina", "other@x.com", "pw123456")
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	_, err := svc.SignUp(ctx, "", "n@x.com", "pw123456")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.SignUp(ctx, "nina", "n@x.com", "short")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSignInUnknownEmail(t *testing.T) {
	svc := NewAuth(repository.NewMemoryUsers())
	_, err := svc.SignIn(context.Background(), "ghost@x.com", "pw123456")
	require.True(t, apperr.IsNotFound(err))
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	_, err := svc.SignUp(ctx, "nina", "n@x.com", "pw123456")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "n@x.com", "wrong-password")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(repository.NewMemoryUsers())

	created, err := svc.SignUp(ctx, "nina", "n@x.com", "pw123456")
	require.NoError(t, err)

	user, err := svc.Me(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	_, err = svc.Me(ctx, "missing-id")
	require.True(t, apperr.IsNotFound(err))
}
