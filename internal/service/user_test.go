package service

import (
	"context"
	"testing"
	"time"

	"elixa-backend/internal/auth"
	"elixa-backend/internal/dto"
	"elixa-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userFixture struct {
	users  *mockUserRepo
	issuer *auth.TokenIssuer
	mailer *mockMailer
	svc    UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:  newMockUserRepo(),
		issuer: auth.NewTokenIssuer("test-secret", time.Hour),
		mailer: &mockMailer{},
	}
	f.svc = NewUserService(f.users, f.issuer, f.mailer, "http://localhost:8080")
	return f
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:            "Asha",
		Email:           "asha@example.com",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		Phone:           "9800000001",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unverified user and sends the email", func(t *testing.T) {
		f := newUserFixture()

		profile, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", profile.Email)
		assert.False(t, profile.Verified)
		assert.Equal(t, 1, f.mailer.sent)

		stored, err := f.users.FindByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "correct-horse", stored.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct-horse")))
		assert.NotEmpty(t, stored.VerifyToken)
		assert.Equal(t, model.RoleUser, stored.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, registerReq())
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("input validation", func(t *testing.T) {
		f := newUserFixture()

		bad := registerReq()
		bad.Email = "not-an-email"
		_, err := f.svc.Register(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)

		bad = registerReq()
		bad.Password = "short"
		bad.ConfirmPassword = "short"
		_, err = f.svc.Register(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)

		bad = registerReq()
		bad.ConfirmPassword = "something-else"
		_, err = f.svc.Register(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		f := newUserFixture()
		f.mailer.toErr = assert.AnError

		_, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the user verified", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)

		stored, err := f.users.FindByEmail(ctx, "asha@example.com")
		require.NoError(t, err)

		require.NoError(t, f.svc.VerifyEmail(ctx, stored.VerifyToken))

		stored, err = f.users.FindByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		assert.True(t, stored.Verified)
		assert.Empty(t, stored.VerifyToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newUserFixture()

		err := f.svc.VerifyEmail(ctx, "deadbeef")
		assert.ErrorIs(t, err, ErrInvalidVerifyToken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a token carrying the user's claims", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)

		resp, err := f.svc.Login(ctx, &dto.LoginRequest{
			Email:    "asha@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)

		claims, err := f.issuer.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, "asha@example.com", claims.Email)
		assert.Equal(t, model.RoleUser, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, &dto.LoginRequest{
			Email:    "asha@example.com",
			Password: "wrong-horse",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as a wrong password", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.svc.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever-pass",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	f := newUserFixture()

	profile, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	updated, err := f.svc.UpdateProfile(ctx, profile.ID, &dto.UpdateProfileRequest{
		Name:  "Asha Rai",
		Phone: "9811111111",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rai", updated.Name)
	assert.Equal(t, "9811111111", updated.Phone)

	// empty fields keep their current values
	updated, err = f.svc.UpdateProfile(ctx, profile.ID, &dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rai", updated.Name)
	assert.Equal(t, "9811111111", updated.Phone)

	_, err = f.svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
