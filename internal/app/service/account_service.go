package service

import (
	"errors"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrLastOwner          = errors.New("cannot delete the last owner account")
)

type CreateAccountInput struct {
	Name        string                   `json:"name" binding:"required"`
	Login       string                   `json:"login" binding:"required"`
	Password    string                   `json:"password" binding:"required,min=6"`
	Role        model.Role               `json:"role" binding:"required"`
	Override    model.PermissionOverride `json:"permission_override"`
	BusinessIDs model.UintArray          `json:"business_ids"`
}

type UpdateAccountInput struct {
	Name        *string                   `json:"name"`
	Password    *string                   `json:"password"`
	Role        *model.Role               `json:"role"`
	Override    *model.PermissionOverride `json:"permission_override"`
	BusinessIDs *model.UintArray          `json:"business_ids"`
}

type AccountService interface {
	List() ([]model.Account, error)
	GetByID(id uint) (*model.Account, error)
	Create(input CreateAccountInput) (*model.Account, error)
	Update(id uint, input UpdateAccountInput) (*model.Account, error)
	Delete(id uint) error
	Permissions(id uint) (model.PermissionSet, error)
}

type accountService struct {
	accountRepo repository.AccountRepository
}

func NewAccountService(accountRepo repository.AccountRepository) AccountService {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) List() ([]model.Account, error) {
	return s.accountRepo.FindAll()
}

func (s *accountService) GetByID(id uint) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) Create(input CreateAccountInput) (*model.Account, error) {
	logger.Info("Creating account", map[string]interface{}{
		"login": input.Login,
		"role":  input.Role,
	})

	if !input.Role.Valid() {
		return nil, model.ErrUnknownRole
	}
	if err := input.Override.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindByLogin(input.Login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing login", err, map[string]interface{}{
			"login": input.Login,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Account creation failed: login already exists", map[string]interface{}{
			"login": input.Login,
		})
		return nil, ErrLoginAlreadyExists
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"login": input.Login,
		})
		return nil, err
	}

	account := &model.Account{
		Name:         input.Name,
		Login:        input.Login,
		PasswordHash: hash,
		Role:         input.Role,
		Override:     input.Override,
		BusinessIDs:  input.BusinessIDs,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	logger.Info("Account created successfully", map[string]interface{}{
		"account_id": account.ID,
		"login":      account.Login,
		"role":       account.Role,
	})
	return account, nil
}

func (s *accountService) Update(id uint, input UpdateAccountInput) (*model.Account, error) {
	account, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, model.ErrUnknownRole
		}
		// Demoting the last owner would orphan manage_accounts the same
		// way deleting it would.
		if account.Role == model.RoleOwner && *input.Role != model.RoleOwner {
			if err := s.checkNotLastOwner(id); err != nil {
				return nil, err
			}
		}
		account.Role = *input.Role
	}
	if input.Override != nil {
		if err := input.Override.Validate(); err != nil {
			return nil, err
		}
		account.Override = *input.Override
	}
	if input.BusinessIDs != nil {
		account.BusinessIDs = *input.BusinessIDs
	}

	if err := s.accountRepo.Update(account); err != nil {
		return nil, err
	}

	logger.Info("Account updated successfully", map[string]interface{}{
		"account_id": account.ID,
	})
	return account, nil
}

func (s *accountService) Delete(id uint) error {
	account, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if account.Role == model.RoleOwner {
		if err := s.checkNotLastOwner(id); err != nil {
			return err
		}
	}

	if err := s.accountRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Account deleted", map[string]interface{}{
		"account_id": id,
		"login":      account.Login,
	})
	return nil
}

func (s *accountService) Permissions(id uint) (model.PermissionSet, error) {
	account, err := s.GetByID(id)
	if err != nil {
		return model.PermissionSet{}, err
	}
	return account.EffectivePermissions()
}

func (s *accountService) checkNotLastOwner(id uint) error {
	count, err := s.accountRepo.CountByRole(model.RoleOwner)
	if err != nil {
		return err
	}
	if count <= 1 {
		logger.Warn("Refusing to remove the last owner", map[string]interface{}{
			"account_id": id,
		})
		return ErrLastOwner
	}
	return nil
}
