package service

import (
	"testing"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccountServiceTest(t *testing.T) AccountService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAccountService(repository.NewAccountRepository(testDB))
}

func TestAccountService_Create(t *testing.T) {
	accountService := setupAccountServiceTest(t)

	tests := []struct {
		name       string
		input      CreateAccountInput
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "Valid manager",
			input: CreateAccountInput{
				Name:     "Мария",
				Login:    "manager1",
				Password: "secret123",
				Role:     model.RoleManager,
			},
			wantErr: nil,
		},
		{
			name: "Duplicate login",
			input: CreateAccountInput{
				Name:     "Другая Мария",
				Login:    "manager1",
				Password: "secret456",
				Role:     model.RoleSeller,
			},
			wantErr: ErrLoginAlreadyExists,
		},
		{
			name: "Unknown role",
			input: CreateAccountInput{
				Name:     "Некто",
				Login:    "nobody",
				Password: "secret123",
				Role:     model.Role("admin"),
			},
			wantErr: model.ErrUnknownRole,
		},
		{
			name: "Unknown override key",
			input: CreateAccountInput{
				Name:     "Продавец",
				Login:    "seller1",
				Password: "secret123",
				Role:     model.RoleSeller,
				Override: model.PermissionOverride{"fly_to_moon": true},
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := accountService.Create(tt.input)

			switch {
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.Nil(t, account)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
			default:
				require.NoError(t, err)
				require.NotNil(t, account)
				assert.Equal(t, tt.input.Login, account.Login)
				assert.Equal(t, tt.input.Role, account.Role)
				assert.NotEqual(t, tt.input.Password, account.PasswordHash)
			}
		})
	}
}

func TestAccountService_Update(t *testing.T) {
	accountService := setupAccountServiceTest(t)

	account, err := accountService.Create(CreateAccountInput{
		Name:     "Продавец",
		Login:    "seller1",
		Password: "secret123",
		Role:     model.RoleSeller,
	})
	require.NoError(t, err)

	newName := "Старший продавец"
	role := model.RoleManager
	override := model.PermissionOverride{model.PermExportData: true}

	updated, err := accountService.Update(account.ID, UpdateAccountInput{
		Name:     &newName,
		Role:     &role,
		Override: &override,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, model.RoleManager, updated.Role)

	perms, err := accountService.Permissions(account.ID)
	require.NoError(t, err)
	assert.True(t, perms.ExportData)
}

func TestAccountService_LastOwnerGuard(t *testing.T) {
	accountService := setupAccountServiceTest(t)

	owner, err := accountService.Create(CreateAccountInput{
		Name:     "Владелец",
		Login:    "boss",
		Password: "boss123",
		Role:     model.RoleOwner,
	})
	require.NoError(t, err)

	// the only owner can be neither deleted nor demoted
	err = accountService.Delete(owner.ID)
	assert.ErrorIs(t, err, ErrLastOwner)

	seller := model.RoleSeller
	_, err = accountService.Update(owner.ID, UpdateAccountInput{Role: &seller})
	assert.ErrorIs(t, err, ErrLastOwner)

	// with a second owner both operations go through
	_, err = accountService.Create(CreateAccountInput{
		Name:     "Второй владелец",
		Login:    "boss2",
		Password: "boss123",
		Role:     model.RoleOwner,
	})
	require.NoError(t, err)

	err = accountService.Delete(owner.ID)
	require.NoError(t, err)

	_, err = accountService.GetByID(owner.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_Permissions(t *testing.T) {
	accountService := setupAccountServiceTest(t)

	account, err := accountService.Create(CreateAccountInput{
		Name:     "Покупатель",
		Login:    "buyer1",
		Password: "secret123",
		Role:     model.RoleBuyer,
		Override: model.PermissionOverride{model.PermViewFinancials: true},
	})
	require.NoError(t, err)

	perms, err := accountService.Permissions(account.ID)
	require.NoError(t, err)

	// buyer defaults plus the single granted override
	assert.True(t, perms.ViewBusiness)
	assert.True(t, perms.ViewSummary)
	assert.True(t, perms.ViewFinancials)
	assert.False(t, perms.EditFinancials)
	assert.False(t, perms.ManageAccounts)
}
