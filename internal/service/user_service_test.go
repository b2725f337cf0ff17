package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUserRequest() CreateUserRequest {
	return CreateUserRequest{
		Username: "anna",
		Email:    "anna@example.com",
		Password: "secret123",
		Role:     model.RoleLandlord,
	}
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	res, err := svc.CreateUser(context.Background(), testUserRequest())
	require.NoError(t, err)
	assert.Equal(t, "anna", res.Username)
	assert.Equal(t, model.RoleLandlord, res.Role)

	// The stored password is hashed, never the plaintext.
	var user model.User
	require.NoError(t, db.First(&user, res.ID).Error)
	assert.NotEqual(t, "secret123", user.Password)
}

func TestCreateUserRejectsBadRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	req := testUserRequest()
	req.Role = "superuser"
	_, err := svc.CreateUser(context.Background(), req)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateUserUniqueness(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.CreateUser(context.Background(), testUserRequest())
	require.NoError(t, err)

	dup := testUserRequest()
	dup.Email = "other@example.com"
	_, err = svc.CreateUser(context.Background(), dup)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	dup = testUserRequest()
	dup.Username = "other"
	_, err = svc.CreateUser(context.Background(), dup)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	created, err := svc.CreateUser(context.Background(), testUserRequest())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), LoginUserRequest{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The access token carries the user id and role.
	token, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(created.ID), 10), sub)
	assert.Equal(t, model.RoleLandlord, claims["role"])

	_, err = svc.Login(context.Background(), LoginUserRequest{Email: "anna@example.com", Password: "wrong"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Login(context.Background(), LoginUserRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, apperr.IsValidation(err))
}

func TestRefreshRotatesToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.CreateUser(context.Background(), testUserRequest())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), LoginUserRequest{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The consumed token cannot be replayed.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, apperr.IsValidation(err))

	// The rotated one still works.
	_, err = svc.Refresh(context.Background(), next.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.CreateUser(context.Background(), testUserRequest())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), LoginUserRequest{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteUserRevokesTokens(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	created, err := svc.CreateUser(context.Background(), testUserRequest())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), LoginUserRequest{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	_, err = svc.GetUserByID(context.Background(), created.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, apperr.IsValidation(err))
}
