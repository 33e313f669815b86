package repository

import (
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(business *model.Business) error
	FindByID(id uint) (*model.Business, error)
	// FindAll is the single authoritative business index. Aggregation
	// never reconstructs ids from other tables.
	FindAll() ([]model.Business, error)
	FindActive() ([]model.Business, error)
	FindPool() ([]model.Business, error)
	FindByResponsible(accountID uint) ([]model.Business, error)
	BulkCreate(businesses []model.Business, batchSize int) error
	Update(business *model.Business) error
	Delete(id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"title": business.Title,
		"city":  business.City,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"title": business.Title,
		})
		return err
	}
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.Preload("Responsible").First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindAll() ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.Order("id").Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses", err)
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindActive() ([]model.Business, error) {
	var businesses []model.Business
	err := r.db.Where("status <> ?", model.StatusArchived).Order("id").Find(&businesses).Error
	if err != nil {
		logger.Error("Failed to list active businesses", err)
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindPool() ([]model.Business, error) {
	var businesses []model.Business
	err := r.db.Where("responsible_id IS NULL").Order("created_at DESC").Find(&businesses).Error
	if err != nil {
		logger.Error("Failed to list pool businesses", err)
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindByResponsible(accountID uint) ([]model.Business, error) {
	var businesses []model.Business
	err := r.db.Where("responsible_id = ?", accountID).Order("updated_at DESC").Find(&businesses).Error
	if err != nil {
		logger.Error("Failed to list businesses by responsible", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, err
	}
	return businesses, nil
}

// BulkCreate inserts businesses in batches, used by the import tool
func (r *businessRepository) BulkCreate(businesses []model.Business, batchSize int) error {
	logger.Debug("Bulk creating businesses", map[string]interface{}{
		"count":      len(businesses),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(businesses, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create businesses", err, map[string]interface{}{
			"count": len(businesses),
		})
		return err
	}
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	logger.Debug("Updating business in database", map[string]interface{}{
		"business_id": business.ID,
		"status":      business.Status,
	})

	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) Delete(id uint) error {
	logger.Debug("Deleting business from database", map[string]interface{}{
		"business_id": id,
	})

	if err := r.db.Delete(&model.Business{}, id).Error; err != nil {
		logger.Error("Failed to delete business from database", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	return nil
}
