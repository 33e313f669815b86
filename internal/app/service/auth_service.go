package service

import (
	"context"
	"errors"
	"time"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/redis"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrAccountNotFound    = errors.New("account not found")
)

type AuthService interface {
	Login(login, password string) (*model.Account, *util.TokenPair, error)
	Logout(ctx context.Context, token string, claims *util.Claims) error
	GetAccountByID(id uint) (*model.Account, error)
}

type authService struct {
	accountRepo   repository.AccountRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		accountRepo:   accountRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Login(login, password string) (*model.Account, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"login": login,
	})

	account, err := s.accountRepo.FindByLogin(login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: account not found", map[string]interface{}{
				"login": login,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find account", err, map[string]interface{}{
			"login": login,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(account.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"login":      login,
			"account_id": account.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		account.ID,
		account.Login,
		string(account.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, nil, err
	}

	logger.Info("Account logged in successfully", map[string]interface{}{
		"account_id": account.ID,
		"login":      login,
		"role":       account.Role,
	})

	return account, tokens, nil
}

// Logout blacklists the presented access token until it expires on its own.
// Without redis the blacklist is a no-op and the token simply ages out.
func (s *authService) Logout(ctx context.Context, token string, claims *util.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := redis.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"account_id": claims.UserID,
		})
		return err
	}

	logger.Info("Account logged out", map[string]interface{}{
		"account_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetAccountByID(id uint) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		logger.Error("Failed to fetch account", err, map[string]interface{}{
			"account_id": id,
		})
		return nil, err
	}
	return account, nil
}
