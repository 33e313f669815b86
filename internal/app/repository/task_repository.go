package repository

import (
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(task *model.Task) error
	FindByID(id uint) (*model.Task, error)
	FindByBusiness(businessID uint) ([]model.Task, error)
	Update(task *model.Task) error
	Delete(id uint) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	logger.Debug("Creating task in database", map[string]interface{}{
		"business_id": task.BusinessID,
		"title":       task.Title,
	})

	if err := r.db.Create(task).Error; err != nil {
		logger.Error("Failed to create task in database", err, map[string]interface{}{
			"business_id": task.BusinessID,
		})
		return err
	}
	return nil
}

func (r *taskRepository) FindByID(id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByBusiness(businessID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.Where("business_id = ?", businessID).
		Order("done, due_date IS NULL, due_date").Find(&tasks).Error
	if err != nil {
		logger.Error("Failed to list tasks", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(task *model.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		logger.Error("Failed to update task in database", err, map[string]interface{}{
			"task_id": task.ID,
		})
		return err
	}
	return nil
}

func (r *taskRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Task{}, id).Error; err != nil {
		logger.Error("Failed to delete task from database", err, map[string]interface{}{
			"task_id": id,
		})
		return err
	}
	return nil
}
