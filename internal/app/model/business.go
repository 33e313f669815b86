package model

import (
	"time"

	"gorm.io/gorm"
)

type BusinessKind string // own or franchise

const (
	KindOwn       BusinessKind = "own"
	KindFranchise BusinessKind = "franchise"
)

func (k BusinessKind) Valid() bool {
	return k == KindOwn || k == KindFranchise
}

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyBYN Currency = "BYN"
	CurrencyKZT Currency = "KZT"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyRUB, CurrencyBYN, CurrencyKZT:
		return true
	}
	return false
}

// BusinessStatus is the sales pipeline stage
type BusinessStatus string

const (
	StatusNew              BusinessStatus = "new"                // заявка взята в работу
	StatusAssigned         BusinessStatus = "assigned"           // менеджер определён
	StatusPrimaryCollected BusinessStatus = "primary_collected"  // первичные данные собраны
	StatusPriceEstimated   BusinessStatus = "price_estimated"    // стоимость определена
	StatusPriceAgreed      BusinessStatus = "price_agreed"       // стоимость согласована
	StatusBuyersBaseFormed BusinessStatus = "buyers_base_formed" // база покупателей сформирована
	StatusMeetings         BusinessStatus = "meetings"           // встречи идут
	StatusApprovedBuyer    BusinessStatus = "approved_buyer"     // есть одобренный покупатель
	StatusBuyerHasMoney    BusinessStatus = "buyer_has_money"    // подтверждены деньги
	StatusSigning          BusinessStatus = "signing"            // подписание договора
	StatusSold             BusinessStatus = "sold"               // бизнес продан
	StatusArchived         BusinessStatus = "archived"           // архив, терминальный
)

// PipelineStatuses lists the ordered pipeline stages. Archived is excluded,
// it is reachable from any stage.
var PipelineStatuses = []BusinessStatus{
	StatusNew,
	StatusAssigned,
	StatusPrimaryCollected,
	StatusPriceEstimated,
	StatusPriceAgreed,
	StatusBuyersBaseFormed,
	StatusMeetings,
	StatusApprovedBuyer,
	StatusBuyerHasMoney,
	StatusSigning,
	StatusSold,
}

func (s BusinessStatus) Valid() bool {
	if s == StatusArchived {
		return true
	}
	for _, st := range PipelineStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Title returns the Russian display name for a pipeline stage
func (s BusinessStatus) Title() string {
	switch s {
	case StatusNew:
		return "Новая заявка"
	case StatusAssigned:
		return "Менеджер назначен"
	case StatusPrimaryCollected:
		return "Первичные данные собраны"
	case StatusPriceEstimated:
		return "Стоимость определена"
	case StatusPriceAgreed:
		return "Стоимость согласована"
	case StatusBuyersBaseFormed:
		return "База покупателей сформирована"
	case StatusMeetings:
		return "Идут встречи"
	case StatusApprovedBuyer:
		return "Покупатель одобрен"
	case StatusBuyerHasMoney:
		return "Деньги подтверждены"
	case StatusSigning:
		return "Подписание договора"
	case StatusSold:
		return "Продан"
	case StatusArchived:
		return "Архив"
	}
	return string(s)
}

type Business struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	City          string         `gorm:"index" json:"city"`
	Direction     string         `json:"direction"`                                       // сфера деятельности
	Kind          BusinessKind   `gorm:"type:varchar(20);default:'own'" json:"kind"`      // own / franchise
	Currency      Currency       `gorm:"type:varchar(3);default:'RUB'" json:"currency"`   // RUB / BYN / KZT
	OwnerContact  string         `json:"owner_contact"`                                   // контакты собственника
	Status        BusinessStatus `gorm:"type:varchar(30);default:'new';index" json:"status"`
	ResponsibleID *uint          `gorm:"index" json:"responsible_id"` // nil = биржа (pool)
	Responsible   *Account       `gorm:"foreignKey:ResponsibleID" json:"responsible,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Tasks       []Task       `gorm:"foreignKey:BusinessID" json:"tasks,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:BusinessID" json:"attachments,omitempty"`
}

func (Business) TableName() string {
	return "businesses"
}

// InPool reports whether the business has no responsible manager
func (b *Business) InPool() bool {
	return b.ResponsibleID == nil
}
