package service

import (
	"errors"
	"time"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uint      `json:"assignee_id"`
}

type TaskService interface {
	Create(businessID uint, input TaskInput) (*model.Task, error)
	ListByBusiness(businessID uint) ([]model.Task, error)
	Update(id uint, input TaskInput) (*model.Task, error)
	SetDone(id uint, done bool) (*model.Task, error)
	Delete(id uint) error
}

type taskService struct {
	taskRepo     repository.TaskRepository
	businessRepo repository.BusinessRepository
}

func NewTaskService(taskRepo repository.TaskRepository, businessRepo repository.BusinessRepository) TaskService {
	return &taskService{taskRepo: taskRepo, businessRepo: businessRepo}
}

func (s *taskService) Create(businessID uint, input TaskInput) (*model.Task, error) {
	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	task := &model.Task{
		BusinessID:  businessID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListByBusiness(businessID uint) ([]model.Task, error) {
	return s.taskRepo.FindByBusiness(businessID)
}

func (s *taskService) Update(id uint, input TaskInput) (*model.Task, error) {
	task, err := s.get(id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.AssigneeID = input.AssigneeID

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) SetDone(id uint, done bool) (*model.Task, error) {
	task, err := s.get(id)
	if err != nil {
		return nil, err
	}
	task.Done = done
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(id uint) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	return s.taskRepo.Delete(id)
}

func (s *taskService) get(id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}
