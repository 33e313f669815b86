package service

import (
	"context"
	"errors"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/storage"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrStorageNotAvailable = errors.New("file storage is not configured")
)

type RegisterAttachmentInput struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	Key         string `json:"key" binding:"required"`
	FileURL     string `json:"file_url" binding:"required"`
}

type AttachmentService interface {
	// RequestUpload issues a presigned PUT URL; the client uploads
	// directly to storage and then registers the metadata.
	RequestUpload(ctx context.Context, businessID uint, filename, contentType string) (*storage.PresignedURLResponse, error)
	Register(businessID, uploadedBy uint, input RegisterAttachmentInput) (*model.Attachment, error)
	ListByBusiness(businessID uint) ([]model.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
	businessRepo   repository.BusinessRepository
	storage        storage.Storage
}

func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	businessRepo repository.BusinessRepository,
	store storage.Storage,
) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		businessRepo:   businessRepo,
		storage:        store,
	}
}

func (s *attachmentService) RequestUpload(ctx context.Context, businessID uint, filename, contentType string) (*storage.PresignedURLResponse, error) {
	if s.storage == nil {
		return nil, ErrStorageNotAvailable
	}
	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return s.storage.GeneratePresignedURL(ctx, businessID, filename, contentType)
}

func (s *attachmentService) Register(businessID, uploadedBy uint, input RegisterAttachmentInput) (*model.Attachment, error) {
	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	attachment := &model.Attachment{
		BusinessID:  businessID,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		Key:         input.Key,
		FileURL:     input.FileURL,
		UploadedBy:  uploadedBy,
	}
	if err := s.attachmentRepo.Create(attachment); err != nil {
		return nil, err
	}

	logger.Info("Document registered", map[string]interface{}{
		"business_id":   businessID,
		"attachment_id": attachment.ID,
		"file_name":     attachment.FileName,
	})
	return attachment, nil
}

func (s *attachmentService) ListByBusiness(businessID uint) ([]model.Attachment, error) {
	return s.attachmentRepo.FindByBusiness(businessID)
}

func (s *attachmentService) Delete(ctx context.Context, id uint) error {
	attachment, err := s.attachmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	// remove the object first; the row survives a storage failure so the
	// delete can be retried
	if s.storage != nil && attachment.Key != "" {
		if err := s.storage.DeleteObject(ctx, attachment.Key); err != nil {
			logger.Error("Failed to delete stored object", err, map[string]interface{}{
				"attachment_id": id,
				"key":           attachment.Key,
			})
			return err
		}
	}

	return s.attachmentRepo.Delete(id)
}
