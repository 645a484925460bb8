package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *TokenService) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := NewTokenService("secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, tokens, bcrypt.MinCost, zerolog.Nop()), users, tokens
}

func registerReq(email string) model.RegisterRequest {
	return model.RegisterRequest{
		Email:     email,
		Password:  "s3cret-pass",
		FirstName: "Amina",
		LastName:  "Benali",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq("amina@school.test"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleSchoolAdmin, reg.User.Role)
	assert.True(t, reg.User.Enabled)
	assert.NotEqual(t, "s3cret-pass", reg.User.PasswordHash)

	login, err := svc.Login(ctx, "amina@school.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err := tokens.ValidateAccessToken(login.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, model.RoleSchoolAdmin, claims.Role)
}

func TestRegisterKeepsRequestedRole(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	req := registerReq("teacher@school.test")
	req.Role = model.RoleTeacher

	res, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, res.User.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dup@school.test"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("dup@school.test"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	// A concurrent registration that passes the existence check still
	// collides on insert.
	users.skipExists = true
	_, err = svc.Register(ctx, registerReq("dup@school.test"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterStoreFailureCarriesMessage(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.createErr = errors.New("null value in column \"first_name\"")

	_, err := svc.Register(context.Background(), registerReq("x@school.test"))

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "null value in column \"first_name\"", storeErr.Message)
}

func TestRegisterLookupFailureIsNotEchoed(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.lookupErr = errors.New("dial tcp 10.0.3.7:5432: connection refused")

	_, err := svc.Register(context.Background(), registerReq("x@school.test"))

	require.Error(t, err)
	var storeErr *StoreError
	assert.False(t, errors.As(err, &storeErr))
	assert.ErrorIs(t, err, users.lookupErr)
}

func TestRegisterPasswordOver72Bytes(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	req := registerReq("long@school.test")
	req.Password = strings.Repeat("é", 40)

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Empty(t, users.byID)
}

func TestUnknownEmailStillComparesAHash(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	cost, err := bcrypt.Cost(svc.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq("user@school.test"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@school.test", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "user@school.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.byID[res.User.ID].Enabled = false
	_, err = svc.Login(ctx, "user@school.test", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.lookupErr = errors.New("connection reset")
	_, err = svc.Login(ctx, "user@school.test", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, users, tokens := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq("refresh@school.test"))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrRefreshTokenRequired)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid, "access tokens cannot refresh")

	access, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	delete(users.byID, res.User.ID)
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefreshLookupFailureIsNotNotFound(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq("flaky@school.test"))
	require.NoError(t, err)

	users.lookupErr = errors.New("connection reset")
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq("me@school.test"))
	require.NoError(t, err)

	u, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@school.test", u.Email)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
