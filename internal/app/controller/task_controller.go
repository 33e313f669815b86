package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
)

type TaskController struct {
	taskService     service.TaskService
	businessService service.BusinessService
}

func NewTaskController(
	taskService service.TaskService,
	businessService service.BusinessService,
) *TaskController {
	return &TaskController{
		taskService:     taskService,
		businessService: businessService,
	}
}

// List returns a business's tasks
// GET /api/v1/businesses/:id/tasks
func (ctrl *TaskController) List(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	tasks, err := ctrl.taskService.ListByBusiness(id)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Create adds a task to a business
// POST /api/v1/businesses/:id/tasks
func (ctrl *TaskController) Create(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireBusinessAccess(c, ctrl.businessService, id); !ok {
		return
	}

	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите название задачи")
		return
	}

	task, err := ctrl.taskService.Create(id, req)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Бизнес не найден")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create task")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Update rewrites a task
// PUT /api/v1/tasks/:id
func (ctrl *TaskController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите название задачи")
		return
	}

	task, err := ctrl.taskService.Update(id, req)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			apperrors.NotFound(c, apperrors.TaskNotFound, "Задача не найдена")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

type SetDoneRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// SetDone toggles task completion
// PUT /api/v1/tasks/:id/done
func (ctrl *TaskController) SetDone(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Укажите признак выполнения")
		return
	}

	task, err := ctrl.taskService.SetDone(id, *req.Done)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			apperrors.NotFound(c, apperrors.TaskNotFound, "Задача не найдена")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "set task done")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Delete removes a task
// DELETE /api/v1/tasks/:id
func (ctrl *TaskController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.taskService.Delete(id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			apperrors.NotFound(c, apperrors.TaskNotFound, "Задача не найдена")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Задача удалена"})
}
