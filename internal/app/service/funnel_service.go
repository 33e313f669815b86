package service

import (
	"errors"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

type FunnelInput struct {
	Leads       int     `json:"leads"`
	Meetings    int     `json:"meetings"`
	Sales       int     `json:"sales"`
	AvgCheck    float64 `json:"avg_check"`
	Obligations int     `json:"obligations"`
}

// FunnelView is a funnel record together with its derived metrics
type FunnelView struct {
	model.FunnelRecord
	Computed model.FunnelComputed `json:"computed"`
}

type FunnelService interface {
	Upsert(businessID uint, month, year string, input FunnelInput) (*FunnelView, error)
	ListByBusiness(businessID uint) ([]FunnelView, error)
	Get(businessID uint, month, year string) (*FunnelView, error)
	Delete(businessID uint, month, year string) error
}

type funnelService struct {
	funnelRepo   repository.FunnelRepository
	businessRepo repository.BusinessRepository
}

func NewFunnelService(
	funnelRepo repository.FunnelRepository,
	businessRepo repository.BusinessRepository,
) FunnelService {
	return &funnelService{
		funnelRepo:   funnelRepo,
		businessRepo: businessRepo,
	}
}

func (s *funnelService) Upsert(businessID uint, month, year string, input FunnelInput) (*FunnelView, error) {
	if !model.ValidPeriod(month, year) {
		return nil, ErrInvalidPeriod
	}

	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	record, err := s.funnelRepo.FindByBusinessAndPeriod(businessID, month, year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = &model.FunnelRecord{
			BusinessID: businessID,
			Month:      month,
			Year:       year,
		}
	}

	record.Leads = input.Leads
	record.Meetings = input.Meetings
	record.Sales = input.Sales
	record.AvgCheck = input.AvgCheck
	record.Obligations = input.Obligations

	if record.ID == 0 {
		err = s.funnelRepo.Create(record)
	} else {
		err = s.funnelRepo.Update(record)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Funnel period saved", map[string]interface{}{
		"business_id": businessID,
		"period":      record.PeriodKey(),
	})
	invalidateDashboardCache()
	return &FunnelView{FunnelRecord: *record, Computed: record.Computed()}, nil
}

func (s *funnelService) ListByBusiness(businessID uint) ([]FunnelView, error) {
	records, err := s.funnelRepo.FindByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	views := make([]FunnelView, 0, len(records))
	for i := range records {
		views = append(views, FunnelView{
			FunnelRecord: records[i],
			Computed:     records[i].Computed(),
		})
	}
	return views, nil
}

func (s *funnelService) Get(businessID uint, month, year string) (*FunnelView, error) {
	if !model.ValidPeriod(month, year) {
		return nil, ErrInvalidPeriod
	}
	record, err := s.funnelRepo.FindByBusinessAndPeriod(businessID, month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &FunnelView{FunnelRecord: *record, Computed: record.Computed()}, nil
}

func (s *funnelService) Delete(businessID uint, month, year string) error {
	view, err := s.Get(businessID, month, year)
	if err != nil {
		return err
	}
	if err := s.funnelRepo.Delete(view.ID); err != nil {
		return err
	}
	invalidateDashboardCache()
	return nil
}
