package scheduler

import (
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"gorm.io/gorm"
)

// PeriodScheduler opens blank financial and funnel records for every
// active business at the start of each month, so managers enter the month
// with the period already in place.
type PeriodScheduler struct {
	cron          *cron.Cron
	businessRepo  repository.BusinessRepository
	financialRepo repository.FinancialRepository
	funnelRepo    repository.FunnelRepository
}

func NewPeriodScheduler(
	businessRepo repository.BusinessRepository,
	financialRepo repository.FinancialRepository,
	funnelRepo repository.FunnelRepository,
) *PeriodScheduler {
	return &PeriodScheduler{
		cron:          cron.New(),
		businessRepo:  businessRepo,
		financialRepo: financialRepo,
		funnelRepo:    funnelRepo,
	}
}

// Start schedules the opener for 06:00 on the first day of every month
func (s *PeriodScheduler) Start() error {
	_, err := s.cron.AddFunc("0 6 1 * *", func() {
		logger.Info("Starting scheduled period opening", nil)

		if err := s.OpenCurrentPeriods(); err != nil {
			logger.Error("Failed to open monthly periods from scheduler", err)
			return
		}

		logger.Info("Monthly periods opened successfully", nil)
	})
	if err != nil {
		logger.Error("Failed to add cron job for period opening", err)
		return err
	}

	s.cron.Start()
	logger.Info("Period scheduler started (monthly at 06:00 on day 1)", nil)
	return nil
}

func (s *PeriodScheduler) Stop() {
	logger.Info("Stopping period scheduler...", nil)
	s.cron.Stop()
	logger.Info("Period scheduler stopped", nil)
}

// OpenCurrentPeriods creates missing blank records for the current month
// across all non-archived businesses. Existing records are left untouched.
func (s *PeriodScheduler) OpenCurrentPeriods() error {
	month, year := model.CurrentPeriod()

	businesses, err := s.businessRepo.FindActive()
	if err != nil {
		return err
	}

	opened := 0
	for _, business := range businesses {
		created, err := s.openBusinessPeriod(business.ID, month, year)
		if err != nil {
			logger.Error("Failed to open period for business", err, map[string]interface{}{
				"business_id": business.ID,
				"period":      month + "." + year,
			})
			continue
		}
		if created {
			opened++
		}
	}

	logger.Info("Period opening pass finished", map[string]interface{}{
		"period":     month + "." + year,
		"businesses": len(businesses),
		"opened":     opened,
	})
	return nil
}

func (s *PeriodScheduler) openBusinessPeriod(businessID uint, month, year string) (bool, error) {
	created := false

	_, err := s.financialRepo.FindByBusinessAndPeriod(businessID, month, year)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := model.NewFinancialRecord(businessID)
		record.Recalculate()
		if err := s.financialRepo.Create(record); err != nil {
			return created, err
		}
		created = true
	} else if err != nil {
		return created, err
	}

	_, err = s.funnelRepo.FindByBusinessAndPeriod(businessID, month, year)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.funnelRepo.Create(model.NewFunnelRecord(businessID)); err != nil {
			return created, err
		}
		created = true
	} else if err != nil {
		return created, err
	}

	return created, nil
}
