package service

import (
	"testing"
	"time"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (AuthService, AccountService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	accountRepo := repository.NewAccountRepository(testDB)
	authService := NewAuthService(
		accountRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	return authService, NewAccountService(accountRepo)
}

func TestAuthService_Login(t *testing.T) {
	authService, accountService := setupAuthServiceTest(t)

	_, err := accountService.Create(CreateAccountInput{
		Name:     "Владелец",
		Login:    "boss",
		Password: "boss123",
		Role:     model.RoleOwner,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid login",
			login:    "boss",
			password: "boss123",
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			login:    "boss",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown login",
			login:    "ghost",
			password: "boss123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, tokens, err := authService.Login(tt.login, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, account)
			require.NotNil(t, tokens)
			assert.Equal(t, tt.login, account.Login)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)

			claims, err := util.ValidateToken(tokens.AccessToken, "test-jwt-secret")
			require.NoError(t, err)
			assert.Equal(t, account.ID, claims.UserID)
			assert.Equal(t, string(model.RoleOwner), claims.Role)
		})
	}
}

func TestAuthService_GetAccountByID(t *testing.T) {
	authService, accountService := setupAuthServiceTest(t)

	created, err := accountService.Create(CreateAccountInput{
		Name:     "Мария",
		Login:    "manager1",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)

	account, err := authService.GetAccountByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "manager1", account.Login)

	_, err = authService.GetAccountByID(9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
