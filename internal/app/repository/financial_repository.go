package repository

import (
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type FinancialRepository interface {
	Create(record *model.FinancialRecord) error
	FindByID(id uint) (*model.FinancialRecord, error)
	FindByBusinessAndPeriod(businessID uint, month, year string) (*model.FinancialRecord, error)
	FindByBusiness(businessID uint) ([]model.FinancialRecord, error)
	FindByBusinessIDs(businessIDs []uint) ([]model.FinancialRecord, error)
	FindAll() ([]model.FinancialRecord, error)
	Update(record *model.FinancialRecord) error
	Delete(id uint) error
}

type financialRepository struct {
	db *gorm.DB
}

func NewFinancialRepository(db *gorm.DB) FinancialRepository {
	return &financialRepository{db: db}
}

func (r *financialRepository) Create(record *model.FinancialRecord) error {
	logger.Debug("Creating financial record in database", map[string]interface{}{
		"business_id": record.BusinessID,
		"period":      record.PeriodKey(),
	})

	if err := r.db.Create(record).Error; err != nil {
		logger.Error("Failed to create financial record in database", err, map[string]interface{}{
			"business_id": record.BusinessID,
			"period":      record.PeriodKey(),
		})
		return err
	}
	return nil
}

func (r *financialRepository) FindByID(id uint) (*model.FinancialRecord, error) {
	var record model.FinancialRecord
	if err := r.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *financialRepository) FindByBusinessAndPeriod(businessID uint, month, year string) (*model.FinancialRecord, error) {
	var record model.FinancialRecord
	err := r.db.Where("business_id = ? AND month = ? AND year = ?", businessID, month, year).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *financialRepository) FindByBusiness(businessID uint) ([]model.FinancialRecord, error) {
	var records []model.FinancialRecord
	err := r.db.Where("business_id = ?", businessID).
		Order("year, month").Find(&records).Error
	if err != nil {
		logger.Error("Failed to list financial records", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return records, nil
}

func (r *financialRepository) FindByBusinessIDs(businessIDs []uint) ([]model.FinancialRecord, error) {
	if len(businessIDs) == 0 {
		return []model.FinancialRecord{}, nil
	}
	var records []model.FinancialRecord
	err := r.db.Where("business_id IN ?", businessIDs).
		Order("business_id, year, month").Find(&records).Error
	if err != nil {
		logger.Error("Failed to list financial records for businesses", err)
		return nil, err
	}
	return records, nil
}

func (r *financialRepository) FindAll() ([]model.FinancialRecord, error) {
	var records []model.FinancialRecord
	if err := r.db.Order("business_id, year, month").Find(&records).Error; err != nil {
		logger.Error("Failed to list financial records", err)
		return nil, err
	}
	return records, nil
}

func (r *financialRepository) Update(record *model.FinancialRecord) error {
	logger.Debug("Updating financial record in database", map[string]interface{}{
		"record_id":   record.ID,
		"business_id": record.BusinessID,
		"period":      record.PeriodKey(),
	})

	if err := r.db.Save(record).Error; err != nil {
		logger.Error("Failed to update financial record in database", err, map[string]interface{}{
			"record_id": record.ID,
		})
		return err
	}
	return nil
}

func (r *financialRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.FinancialRecord{}, id).Error; err != nil {
		logger.Error("Failed to delete financial record from database", err, map[string]interface{}{
			"record_id": id,
		})
		return err
	}
	return nil
}
