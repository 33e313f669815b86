package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
)

type UploadController struct {
	attachmentService service.AttachmentService
	businessService   service.BusinessService
}

func NewUploadController(
	attachmentService service.AttachmentService,
	businessService service.BusinessService,
) *UploadController {
	return &UploadController{
		attachmentService: attachmentService,
		businessService:   businessService,
	}
}

type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURL issues a presigned PUT URL for a business document
// POST /api/v1/businesses/:id/documents/upload-url
func (ctrl *UploadController) UploadURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите имя файла и тип содержимого")
		return
	}

	resp, err := ctrl.attachmentService.RequestUpload(c.Request.Context(), id, req.FileName, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageNotAvailable):
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadFailed, "Файловое хранилище не настроено")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "request upload")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register stores document metadata after a successful upload
// POST /api/v1/businesses/:id/documents
func (ctrl *UploadController) Register(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	accountID, _ := middleware.GetAccountID(c)

	var req service.RegisterAttachmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Некорректные данные документа")
		return
	}

	attachment, err := ctrl.attachmentService.Register(id, accountID, req)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register document")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": attachment})
}

// List returns a business's documents
// GET /api/v1/businesses/:id/documents
func (ctrl *UploadController) List(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	documents, err := ctrl.attachmentService.ListByBusiness(id)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list documents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// Delete removes a document and its stored object
// DELETE /api/v1/documents/:id
func (ctrl *UploadController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attachmentService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			apperrors.NotFound(c, apperrors.AttachmentNotFound, "Документ не найден")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Документ удалён"})
}
