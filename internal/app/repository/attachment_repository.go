package repository

import (
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Create(attachment *model.Attachment) error
	FindByID(id uint) (*model.Attachment, error)
	FindByBusiness(businessID uint) ([]model.Attachment, error)
	Delete(id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(attachment *model.Attachment) error {
	logger.Debug("Creating attachment in database", map[string]interface{}{
		"business_id": attachment.BusinessID,
		"file_name":   attachment.FileName,
	})

	if err := r.db.Create(attachment).Error; err != nil {
		logger.Error("Failed to create attachment in database", err, map[string]interface{}{
			"business_id": attachment.BusinessID,
		})
		return err
	}
	return nil
}

func (r *attachmentRepository) FindByID(id uint) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := r.db.First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) FindByBusiness(businessID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Find(&attachments).Error
	if err != nil {
		logger.Error("Failed to list attachments", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return attachments, nil
}

func (r *attachmentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Attachment{}, id).Error; err != nil {
		logger.Error("Failed to delete attachment from database", err, map[string]interface{}{
			"attachment_id": id,
		})
		return err
	}
	return nil
}
