package repository

import (
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(account *model.Account) error
	FindByID(id uint) (*model.Account, error)
	FindByLogin(login string) (*model.Account, error)
	FindAll() ([]model.Account, error)
	CountByRole(role model.Role) (int64, error)
	Update(account *model.Account) error
	Delete(id uint) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *model.Account) error {
	logger.Debug("Creating account in database", map[string]interface{}{
		"login": account.Login,
		"role":  account.Role,
	})

	if err := r.db.Create(account).Error; err != nil {
		logger.Error("Failed to create account in database", err, map[string]interface{}{
			"login": account.Login,
		})
		return err
	}
	return nil
}

func (r *accountRepository) FindByID(id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByLogin(login string) (*model.Account, error) {
	var account model.Account
	if err := r.db.Where("login = ?", login).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindAll() ([]model.Account, error) {
	var accounts []model.Account
	if err := r.db.Order("id").Find(&accounts).Error; err != nil {
		logger.Error("Failed to list accounts", err)
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) CountByRole(role model.Role) (int64, error) {
	var count int64
	err := r.db.Model(&model.Account{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *accountRepository) Update(account *model.Account) error {
	logger.Debug("Updating account in database", map[string]interface{}{
		"account_id": account.ID,
		"login":      account.Login,
	})

	if err := r.db.Save(account).Error; err != nil {
		logger.Error("Failed to update account in database", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return err
	}
	return nil
}

func (r *accountRepository) Delete(id uint) error {
	logger.Debug("Deleting account from database", map[string]interface{}{
		"account_id": id,
	})

	if err := r.db.Delete(&model.Account{}, id).Error; err != nil {
		logger.Error("Failed to delete account from database", err, map[string]interface{}{
			"account_id": id,
		})
		return err
	}
	return nil
}
