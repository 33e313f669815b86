package repository

import (
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type FunnelRepository interface {
	Create(record *model.FunnelRecord) error
	FindByID(id uint) (*model.FunnelRecord, error)
	FindByBusinessAndPeriod(businessID uint, month, year string) (*model.FunnelRecord, error)
	FindByBusiness(businessID uint) ([]model.FunnelRecord, error)
	FindByBusinessIDs(businessIDs []uint) ([]model.FunnelRecord, error)
	FindAll() ([]model.FunnelRecord, error)
	Update(record *model.FunnelRecord) error
	Delete(id uint) error
}

type funnelRepository struct {
	db *gorm.DB
}

func NewFunnelRepository(db *gorm.DB) FunnelRepository {
	return &funnelRepository{db: db}
}

func (r *funnelRepository) Create(record *model.FunnelRecord) error {
	logger.Debug("Creating funnel record in database", map[string]interface{}{
		"business_id": record.BusinessID,
		"period":      record.PeriodKey(),
	})

	if err := r.db.Create(record).Error; err != nil {
		logger.Error("Failed to create funnel record in database", err, map[string]interface{}{
			"business_id": record.BusinessID,
			"period":      record.PeriodKey(),
		})
		return err
	}
	return nil
}

func (r *funnelRepository) FindByID(id uint) (*model.FunnelRecord, error) {
	var record model.FunnelRecord
	if err := r.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *funnelRepository) FindByBusinessAndPeriod(businessID uint, month, year string) (*model.FunnelRecord, error) {
	var record model.FunnelRecord
	err := r.db.Where("business_id = ? AND month = ? AND year = ?", businessID, month, year).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *funnelRepository) FindByBusiness(businessID uint) ([]model.FunnelRecord, error) {
	var records []model.FunnelRecord
	err := r.db.Where("business_id = ?", businessID).
		Order("year, month").Find(&records).Error
	if err != nil {
		logger.Error("Failed to list funnel records", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return records, nil
}

func (r *funnelRepository) FindByBusinessIDs(businessIDs []uint) ([]model.FunnelRecord, error) {
	if len(businessIDs) == 0 {
		return []model.FunnelRecord{}, nil
	}
	var records []model.FunnelRecord
	err := r.db.Where("business_id IN ?", businessIDs).
		Order("business_id, year, month").Find(&records).Error
	if err != nil {
		logger.Error("Failed to list funnel records for businesses", err)
		return nil, err
	}
	return records, nil
}

func (r *funnelRepository) FindAll() ([]model.FunnelRecord, error) {
	var records []model.FunnelRecord
	if err := r.db.Order("business_id, year, month").Find(&records).Error; err != nil {
		logger.Error("Failed to list funnel records", err)
		return nil, err
	}
	return records, nil
}

func (r *funnelRepository) Update(record *model.FunnelRecord) error {
	logger.Debug("Updating funnel record in database", map[string]interface{}{
		"record_id":   record.ID,
		"business_id": record.BusinessID,
		"period":      record.PeriodKey(),
	})

	if err := r.db.Save(record).Error; err != nil {
		logger.Error("Failed to update funnel record in database", err, map[string]interface{}{
			"record_id": record.ID,
		})
		return err
	}
	return nil
}

func (r *funnelRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.FunnelRecord{}, id).Error; err != nil {
		logger.Error("Failed to delete funnel record from database", err, map[string]interface{}{
			"record_id": id,
		})
		return err
	}
	return nil
}
