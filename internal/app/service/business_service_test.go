package service

import (
	"testing"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBusinessServiceTest(t *testing.T) (BusinessService, AccountService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	accountRepo := repository.NewAccountRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	return NewBusinessService(businessRepo, accountRepo, nil), NewAccountService(accountRepo)
}

func createTestBusiness(t *testing.T, svc BusinessService, title string) *model.Business {
	t.Helper()
	business, err := svc.Create(CreateBusinessInput{
		Title:    title,
		City:     "Казань",
		Kind:     model.KindOwn,
		Currency: model.CurrencyRUB,
	})
	require.NoError(t, err)
	return business
}

func TestBusinessService_CreateStartsInPool(t *testing.T) {
	businessService, _ := setupBusinessServiceTest(t)

	business := createTestBusiness(t, businessService, "Кофейня на Баумана")
	assert.Equal(t, model.StatusNew, business.Status)
	assert.Nil(t, business.ResponsibleID)
	assert.True(t, business.InPool())

	pool, err := businessService.ListPool()
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, business.ID, pool[0].ID)
}

func TestBusinessService_AssignUnassign(t *testing.T) {
	businessService, accountService := setupBusinessServiceTest(t)

	manager, err := accountService.Create(CreateAccountInput{
		Name:     "Мария",
		Login:    "manager1",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)

	business := createTestBusiness(t, businessService, "Автомойка")

	assigned, err := businessService.Assign(business.ID, manager.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.ResponsibleID)
	assert.Equal(t, manager.ID, *assigned.ResponsibleID)
	assert.Equal(t, model.StatusAssigned, assigned.Status)

	// moving further down the pipeline and then unassigning resets
	// everything back to the pool invariant
	_, err = businessService.UpdateStatus(business.ID, model.StatusMeetings)
	require.NoError(t, err)

	unassigned, err := businessService.Unassign(business.ID)
	require.NoError(t, err)
	assert.Nil(t, unassigned.ResponsibleID)
	assert.Equal(t, model.StatusNew, unassigned.Status)
}

func TestBusinessService_AssignUnknownAccount(t *testing.T) {
	businessService, _ := setupBusinessServiceTest(t)

	business := createTestBusiness(t, businessService, "Пекарня")
	_, err := businessService.Assign(business.ID, 9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestBusinessService_UpdateStatus(t *testing.T) {
	businessService, accountService := setupBusinessServiceTest(t)

	business := createTestBusiness(t, businessService, "Шиномонтаж")

	// a pool business cannot advance down the pipeline
	_, err := businessService.UpdateStatus(business.ID, model.StatusMeetings)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// but archiving is allowed from anywhere
	archived, err := businessService.UpdateStatus(business.ID, model.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, archived.Status)

	_, err = businessService.UpdateStatus(business.ID, model.BusinessStatus("imaginary"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	manager, err := accountService.Create(CreateAccountInput{
		Name:     "Мария",
		Login:    "manager1",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)

	other := createTestBusiness(t, businessService, "Салон красоты")
	_, err = businessService.Assign(other.ID, manager.ID)
	require.NoError(t, err)

	updated, err := businessService.UpdateStatus(other.ID, model.StatusSold)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, updated.Status)
}

func TestBusinessService_ListVisible(t *testing.T) {
	businessService, accountService := setupBusinessServiceTest(t)

	owner, err := accountService.Create(CreateAccountInput{
		Name:     "Владелец",
		Login:    "boss",
		Password: "boss123",
		Role:     model.RoleOwner,
	})
	require.NoError(t, err)
	manager, err := accountService.Create(CreateAccountInput{
		Name:     "Мария",
		Login:    "manager1",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)

	first := createTestBusiness(t, businessService, "Кофейня")
	second := createTestBusiness(t, businessService, "Автомойка")
	third := createTestBusiness(t, businessService, "Пекарня")

	second, err = businessService.Assign(second.ID, manager.ID)
	require.NoError(t, err)

	buyer, err := accountService.Create(CreateAccountInput{
		Name:        "Покупатель",
		Login:       "buyer1",
		Password:    "secret123",
		Role:        model.RoleBuyer,
		BusinessIDs: model.UintArray{third.ID},
	})
	require.NoError(t, err)

	ownerSees, err := businessService.ListVisible(owner)
	require.NoError(t, err)
	assert.Len(t, ownerSees, 3)

	managerSees, err := businessService.ListVisible(manager)
	require.NoError(t, err)
	require.Len(t, managerSees, 1)
	assert.Equal(t, second.ID, managerSees[0].ID)

	buyerSees, err := businessService.ListVisible(buyer)
	require.NoError(t, err)
	require.Len(t, buyerSees, 1)
	assert.Equal(t, third.ID, buyerSees[0].ID)

	canView, err := businessService.CanView(buyer, first)
	require.NoError(t, err)
	assert.False(t, canView)

	canView, err = businessService.CanView(manager, second)
	require.NoError(t, err)
	assert.True(t, canView)
}
