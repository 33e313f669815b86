package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Role string // account role, closed set

const (
	RoleOwner   Role = "owner"   // владелец, полный доступ
	RoleManager Role = "manager" // менеджер по сопровождению сделок
	RoleSeller  Role = "seller"  // собственник бизнеса
	RoleBuyer   Role = "buyer"   // покупатель
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role
var Roles = []Role{RoleOwner, RoleManager, RoleSeller, RoleBuyer}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleSeller, RoleBuyer:
		return true
	}
	return false
}

// Title returns the Russian display name for a role
func (r Role) Title() string {
	switch r {
	case RoleOwner:
		return "Владелец"
	case RoleManager:
		return "Менеджер"
	case RoleSeller:
		return "Собственник"
	case RoleBuyer:
		return "Покупатель"
	}
	return string(r)
}

// Capability keys. Overrides reference capabilities by these names.
const (
	PermManageAccounts    = "manage_accounts"
	PermViewAllBusinesses = "view_all_businesses"
	PermAssignBusinesses  = "assign_businesses"
	PermViewBusiness      = "view_business"
	PermEditBusiness      = "edit_business"
	PermViewFinancials    = "view_financials"
	PermEditFinancials    = "edit_financials"
	PermViewFunnel        = "view_funnel"
	PermEditFunnel        = "edit_funnel"
	PermViewSummary       = "view_summary"
	PermExportData        = "export_data"
	PermManageFiles       = "manage_files"
	PermManageTasks       = "manage_tasks"
)

// PermissionKeys lists every capability in a stable order
var PermissionKeys = []string{
	PermManageAccounts,
	PermViewAllBusinesses,
	PermAssignBusinesses,
	PermViewBusiness,
	PermEditBusiness,
	PermViewFinancials,
	PermEditFinancials,
	PermViewFunnel,
	PermEditFunnel,
	PermViewSummary,
	PermExportData,
	PermManageFiles,
	PermManageTasks,
}

// PermissionSet is a fixed-shape record of capabilities
type PermissionSet struct {
	ManageAccounts    bool `json:"manage_accounts"`
	ViewAllBusinesses bool `json:"view_all_businesses"`
	AssignBusinesses  bool `json:"assign_businesses"`
	ViewBusiness      bool `json:"view_business"`
	EditBusiness      bool `json:"edit_business"`
	ViewFinancials    bool `json:"view_financials"`
	EditFinancials    bool `json:"edit_financials"`
	ViewFunnel        bool `json:"view_funnel"`
	EditFunnel        bool `json:"edit_funnel"`
	ViewSummary       bool `json:"view_summary"`
	ExportData        bool `json:"export_data"`
	ManageFiles       bool `json:"manage_files"`
	ManageTasks       bool `json:"manage_tasks"`
}

// Has reports whether the capability named by key is granted.
// Unknown keys are never granted.
func (p PermissionSet) Has(key string) bool {
	v, ok := p.get(key)
	return ok && v
}

func (p PermissionSet) get(key string) (bool, bool) {
	switch key {
	case PermManageAccounts:
		return p.ManageAccounts, true
	case PermViewAllBusinesses:
		return p.ViewAllBusinesses, true
	case PermAssignBusinesses:
		return p.AssignBusinesses, true
	case PermViewBusiness:
		return p.ViewBusiness, true
	case PermEditBusiness:
		return p.EditBusiness, true
	case PermViewFinancials:
		return p.ViewFinancials, true
	case PermEditFinancials:
		return p.EditFinancials, true
	case PermViewFunnel:
		return p.ViewFunnel, true
	case PermEditFunnel:
		return p.EditFunnel, true
	case PermViewSummary:
		return p.ViewSummary, true
	case PermExportData:
		return p.ExportData, true
	case PermManageFiles:
		return p.ManageFiles, true
	case PermManageTasks:
		return p.ManageTasks, true
	}
	return false, false
}

func (p *PermissionSet) set(key string, value bool) bool {
	switch key {
	case PermManageAccounts:
		p.ManageAccounts = value
	case PermViewAllBusinesses:
		p.ViewAllBusinesses = value
	case PermAssignBusinesses:
		p.AssignBusinesses = value
	case PermViewBusiness:
		p.ViewBusiness = value
	case PermEditBusiness:
		p.EditBusiness = value
	case PermViewFinancials:
		p.ViewFinancials = value
	case PermEditFinancials:
		p.EditFinancials = value
	case PermViewFunnel:
		p.ViewFunnel = value
	case PermEditFunnel:
		p.EditFunnel = value
	case PermViewSummary:
		p.ViewSummary = value
	case PermExportData:
		p.ExportData = value
	case PermManageFiles:
		p.ManageFiles = value
	case PermManageTasks:
		p.ManageTasks = value
	default:
		return false
	}
	return true
}

// rolePermissions is the immutable defaults table. Per-account overrides are
// applied on top, key by key; the table itself is never mutated.
var rolePermissions = map[Role]PermissionSet{
	RoleOwner: {
		ManageAccounts:    true,
		ViewAllBusinesses: true,
		AssignBusinesses:  true,
		ViewBusiness:      true,
		EditBusiness:      true,
		ViewFinancials:    true,
		EditFinancials:    true,
		ViewFunnel:        true,
		EditFunnel:        true,
		ViewSummary:       true,
		ExportData:        true,
		ManageFiles:       true,
		ManageTasks:       true,
	},
	RoleManager: {
		ViewBusiness:   true,
		EditBusiness:   true,
		ViewFinancials: true,
		EditFinancials: true,
		ViewFunnel:     true,
		EditFunnel:     true,
		ViewSummary:    true,
		ExportData:     true,
		ManageFiles:    true,
		ManageTasks:    true,
	},
	RoleSeller: {
		ViewBusiness:   true,
		ViewFinancials: true,
		ViewFunnel:     true,
		ViewSummary:    true,
	},
	RoleBuyer: {
		ViewBusiness: true,
		ViewSummary:  true,
	},
}

// DefaultPermissions returns a copy of the role's default permission set.
// The role enum is closed, so the error branch only fires on corrupted data.
func DefaultPermissions(role Role) (PermissionSet, error) {
	defaults, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return defaults, nil
}

// PermissionOverride is a sparse capability-name → bool map stored as JSON.
// Keys absent from the map fall back to the role default.
type PermissionOverride map[string]bool

// Value implements database/sql/driver.Valuer
func (o PermissionOverride) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan implements database/sql.Scanner
func (o *PermissionOverride) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PermissionOverride")
	}
	return json.Unmarshal(bytes, o)
}

// ErrUnknownPermissionKey rejects overrides naming capabilities that do
// not exist
var ErrUnknownPermissionKey = errors.New("unknown permission key")

// Validate rejects overrides that name capabilities which do not exist
func (o PermissionOverride) Validate() error {
	probe := PermissionSet{}
	for key := range o {
		if _, ok := probe.get(key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPermissionKey, key)
		}
	}
	return nil
}

// UintArray stores a list of ids as a JSON column (portable across
// Postgres and the sqlite test database)
type UintArray []uint

// Value implements database/sql/driver.Valuer
func (a UintArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements database/sql.Scanner
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan UintArray")
	}
	return json.Unmarshal(bytes, a)
}

// Contains reports whether id is in the scope list
func (a UintArray) Contains(id uint) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

type Account struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	Name         string             `gorm:"not null" json:"name"`
	Login        string             `gorm:"uniqueIndex:idx_accounts_login;not null" json:"login"`
	PasswordHash string             `gorm:"not null" json:"-"`
	Role         Role               `gorm:"type:varchar(20);not null" json:"role"`
	Override     PermissionOverride `gorm:"type:text" json:"permission_override,omitempty"` // sparse per-account override
	BusinessIDs  UintArray          `gorm:"type:text" json:"business_ids,omitempty"`        // optional scoping, empty = unrestricted
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// EffectivePermissions resolves the account's capability set: the role's
// defaults with the override applied entry by entry. It never reads
// anything beyond its receiver.
func (a *Account) EffectivePermissions() (PermissionSet, error) {
	perms, err := DefaultPermissions(a.Role)
	if err != nil {
		return PermissionSet{}, err
	}
	for key, value := range a.Override {
		// unknown keys are rejected on write; ignore here rather than grant
		perms.set(key, value)
	}
	return perms, nil
}
