package service

import (
	"errors"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrInvalidStatus    = errors.New("invalid business status")
)

// Pipeline event types pushed to the websocket feed.
const (
	EventBusinessCreated    = "business_created"
	EventBusinessAssigned   = "business_assigned"
	EventBusinessUnassigned = "business_unassigned"
	EventStatusChanged      = "status_changed"
)

// EventPublisher fans pipeline events out to connected clients.
type EventPublisher interface {
	PublishBusinessEvent(eventType string, business *model.Business)
}

type CreateBusinessInput struct {
	Title        string             `json:"title" binding:"required"`
	City         string             `json:"city"`
	Direction    string             `json:"direction"`
	Kind         model.BusinessKind `json:"kind" binding:"required"`
	Currency     model.Currency     `json:"currency" binding:"required"`
	OwnerContact string             `json:"owner_contact"`
}

type UpdateBusinessInput struct {
	Title        *string             `json:"title"`
	City         *string             `json:"city"`
	Direction    *string             `json:"direction"`
	Kind         *model.BusinessKind `json:"kind"`
	Currency     *model.Currency     `json:"currency"`
	OwnerContact *string             `json:"owner_contact"`
}

type BusinessService interface {
	Create(input CreateBusinessInput) (*model.Business, error)
	GetByID(id uint) (*model.Business, error)
	ListVisible(viewer *model.Account) ([]model.Business, error)
	ListPool() ([]model.Business, error)
	Update(id uint, input UpdateBusinessInput) (*model.Business, error)
	UpdateStatus(id uint, status model.BusinessStatus) (*model.Business, error)
	Assign(businessID, accountID uint) (*model.Business, error)
	Unassign(businessID uint) (*model.Business, error)
	Delete(id uint) error
	CanView(viewer *model.Account, business *model.Business) (bool, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	accountRepo  repository.AccountRepository
	events       EventPublisher
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	accountRepo repository.AccountRepository,
	events EventPublisher,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		accountRepo:  accountRepo,
		events:       events,
	}
}

func (s *businessService) Create(input CreateBusinessInput) (*model.Business, error) {
	business := &model.Business{
		Title:        input.Title,
		City:         input.City,
		Direction:    input.Direction,
		Kind:         input.Kind,
		Currency:     input.Currency,
		OwnerContact: input.OwnerContact,
		Status:       model.StatusNew,
	}

	if err := s.businessRepo.Create(business); err != nil {
		return nil, err
	}

	logger.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
		"title":       business.Title,
	})
	s.publish(EventBusinessCreated, business)
	return business, nil
}

func (s *businessService) GetByID(id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// ListVisible applies the viewer's scope: view_all_businesses sees
// everything, a responsible sees their assignments, a scoped account
// (buyer) sees its explicit business id list.
func (s *businessService) ListVisible(viewer *model.Account) ([]model.Business, error) {
	perms, err := viewer.EffectivePermissions()
	if err != nil {
		return nil, err
	}

	if perms.ViewAllBusinesses {
		return s.businessRepo.FindAll()
	}

	if len(viewer.BusinessIDs) > 0 {
		all, err := s.businessRepo.FindAll()
		if err != nil {
			return nil, err
		}
		visible := make([]model.Business, 0, len(viewer.BusinessIDs))
		for _, b := range all {
			if viewer.BusinessIDs.Contains(b.ID) {
				visible = append(visible, b)
			}
		}
		return visible, nil
	}

	return s.businessRepo.FindByResponsible(viewer.ID)
}

func (s *businessService) ListPool() ([]model.Business, error) {
	return s.businessRepo.FindPool()
}

func (s *businessService) Update(id uint, input UpdateBusinessInput) (*model.Business, error) {
	business, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		business.Title = *input.Title
	}
	if input.City != nil {
		business.City = *input.City
	}
	if input.Direction != nil {
		business.Direction = *input.Direction
	}
	if input.Kind != nil {
		business.Kind = *input.Kind
	}
	if input.Currency != nil {
		business.Currency = *input.Currency
	}
	if input.OwnerContact != nil {
		business.OwnerContact = *input.OwnerContact
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *businessService) UpdateStatus(id uint, status model.BusinessStatus) (*model.Business, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	business, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	// A business in the pool stays in "new" until someone takes it;
	// archiving is the one move allowed regardless.
	if business.ResponsibleID == nil && status != model.StatusArchived {
		return nil, ErrInvalidStatus
	}

	business.Status = status
	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	logger.Info("Business status changed", map[string]interface{}{
		"business_id": business.ID,
		"status":      status,
	})
	s.publish(EventStatusChanged, business)
	return business, nil
}

func (s *businessService) Assign(businessID, accountID uint) (*model.Business, error) {
	business, err := s.GetByID(businessID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	business.ResponsibleID = &account.ID
	if business.Status == model.StatusNew {
		business.Status = model.StatusAssigned
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	logger.Info("Business assigned", map[string]interface{}{
		"business_id": business.ID,
		"account_id":  account.ID,
	})
	s.publish(EventBusinessAssigned, business)
	return business, nil
}

func (s *businessService) Unassign(businessID uint) (*model.Business, error) {
	business, err := s.GetByID(businessID)
	if err != nil {
		return nil, err
	}

	// Back to the pool: without a responsible the status invariant
	// demands "new".
	business.ResponsibleID = nil
	business.Status = model.StatusNew

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	logger.Info("Business returned to pool", map[string]interface{}{
		"business_id": business.ID,
	})
	s.publish(EventBusinessUnassigned, business)
	return business, nil
}

func (s *businessService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.businessRepo.Delete(id)
}

func (s *businessService) CanView(viewer *model.Account, business *model.Business) (bool, error) {
	perms, err := viewer.EffectivePermissions()
	if err != nil {
		return false, err
	}
	if perms.ViewAllBusinesses {
		return true, nil
	}
	if business.ResponsibleID != nil && *business.ResponsibleID == viewer.ID {
		return true, nil
	}
	return viewer.BusinessIDs.Contains(business.ID), nil
}

func (s *businessService) publish(eventType string, business *model.Business) {
	if s.events != nil {
		s.events.PublishBusinessEvent(eventType, business)
	}
}
