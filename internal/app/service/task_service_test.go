package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
)

func setupTaskServiceTest(t *testing.T) (TaskService, BusinessService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	accountRepo := repository.NewAccountRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	taskRepo := repository.NewTaskRepository(testDB)
	return NewTaskService(taskRepo, businessRepo),
		NewBusinessService(businessRepo, accountRepo, nil)
}

func TestTaskService_CreateAndList(t *testing.T) {
	taskService, businessService := setupTaskServiceTest(t)

	business := createTestBusiness(t, businessService, "Пекарня")

	due := time.Now().Add(48 * time.Hour)
	first, err := taskService.Create(business.ID, TaskInput{
		Title:       "Запросить выписку по счёту",
		Description: "За последние 12 месяцев",
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.Equal(t, business.ID, first.BusinessID)
	assert.False(t, first.Done)

	_, err = taskService.Create(business.ID, TaskInput{Title: "Назначить встречу с собственником"})
	require.NoError(t, err)

	tasks, err := taskService.ListByBusiness(business.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskService_CreateUnknownBusiness(t *testing.T) {
	taskService, _ := setupTaskServiceTest(t)

	_, err := taskService.Create(999, TaskInput{Title: "Позвонить"})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestTaskService_SetDone(t *testing.T) {
	taskService, businessService := setupTaskServiceTest(t)

	business := createTestBusiness(t, businessService, "Шиномонтаж")
	task, err := taskService.Create(business.ID, TaskInput{Title: "Собрать документы"})
	require.NoError(t, err)

	done, err := taskService.SetDone(task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Done)

	reopened, err := taskService.SetDone(task.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.Done)
}

func TestTaskService_UpdateAndDelete(t *testing.T) {
	taskService, businessService := setupTaskServiceTest(t)

	business := createTestBusiness(t, businessService, "Ателье")
	task, err := taskService.Create(business.ID, TaskInput{Title: "Черновик объявления"})
	require.NoError(t, err)

	updated, err := taskService.Update(task.ID, TaskInput{
		Title:       "Финальное объявление",
		Description: "Согласовано с собственником",
	})
	require.NoError(t, err)
	assert.Equal(t, "Финальное объявление", updated.Title)

	require.NoError(t, taskService.Delete(task.ID))

	_, err = taskService.Update(task.ID, TaskInput{Title: "после удаления"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = taskService.Delete(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
