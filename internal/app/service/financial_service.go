package service

import (
	"context"
	"errors"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrInvalidPeriod  = errors.New("invalid period: month must be \"01\"..\"12\", year four digits")
	ErrRecordNotFound = errors.New("period record not found")
)

// FinancialInput carries the client-editable fields of a period. Royalty is
// absent on purpose, it is derived on every write.
type FinancialInput struct {
	Revenue               float64 `json:"revenue"`
	RoyaltyPercent        float64 `json:"royalty_percent"`
	RoyaltyIncludeRefunds bool    `json:"royalty_include_refunds"`

	Rent       float64 `json:"rent"`
	Payroll    float64 `json:"payroll"`
	Internet   float64 `json:"internet"`
	Telephony  float64 `json:"telephony"`
	Admin      float64 `json:"admin"`
	Taxes      float64 `json:"taxes"`
	Refunds    float64 `json:"refunds"`
	Accounting float64 `json:"accounting"`
	Marketing  float64 `json:"marketing"`
}

type FinancialService interface {
	Upsert(businessID uint, month, year string, input FinancialInput) (*model.FinancialRecord, error)
	ListByBusiness(businessID uint) ([]model.FinancialRecord, error)
	Get(businessID uint, month, year string) (*model.FinancialRecord, error)
	Delete(businessID uint, month, year string) error
}

type financialService struct {
	financialRepo repository.FinancialRepository
	businessRepo  repository.BusinessRepository
}

func NewFinancialService(
	financialRepo repository.FinancialRepository,
	businessRepo repository.BusinessRepository,
) FinancialService {
	return &financialService{
		financialRepo: financialRepo,
		businessRepo:  businessRepo,
	}
}

// Upsert writes one business period. A record is keyed by the exact
// (month, year) strings; the derived columns are recomputed on every write
// so a stored royalty can never go stale.
func (s *financialService) Upsert(businessID uint, month, year string, input FinancialInput) (*model.FinancialRecord, error) {
	if !model.ValidPeriod(month, year) {
		return nil, ErrInvalidPeriod
	}

	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	record, err := s.financialRepo.FindByBusinessAndPeriod(businessID, month, year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = &model.FinancialRecord{
			BusinessID: businessID,
			Month:      month,
			Year:       year,
		}
	}

	record.Revenue = input.Revenue
	record.RoyaltyPercent = input.RoyaltyPercent
	record.RoyaltyIncludeRefunds = input.RoyaltyIncludeRefunds
	record.Expenses = model.Expenses{
		Rent:       input.Rent,
		Payroll:    input.Payroll,
		Internet:   input.Internet,
		Telephony:  input.Telephony,
		Admin:      input.Admin,
		Taxes:      input.Taxes,
		Refunds:    input.Refunds,
		Accounting: input.Accounting,
		Marketing:  input.Marketing,
	}
	record.Recalculate()

	if record.ID == 0 {
		err = s.financialRepo.Create(record)
	} else {
		err = s.financialRepo.Update(record)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Financial period saved", map[string]interface{}{
		"business_id": businessID,
		"period":      record.PeriodKey(),
		"net":         record.Net,
	})
	invalidateDashboardCache()
	return record, nil
}

func (s *financialService) ListByBusiness(businessID uint) ([]model.FinancialRecord, error) {
	return s.financialRepo.FindByBusiness(businessID)
}

func (s *financialService) Get(businessID uint, month, year string) (*model.FinancialRecord, error) {
	if !model.ValidPeriod(month, year) {
		return nil, ErrInvalidPeriod
	}
	record, err := s.financialRepo.FindByBusinessAndPeriod(businessID, month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *financialService) Delete(businessID uint, month, year string) error {
	record, err := s.Get(businessID, month, year)
	if err != nil {
		return err
	}
	if err := s.financialRepo.Delete(record.ID); err != nil {
		return err
	}
	invalidateDashboardCache()
	return nil
}

// invalidateDashboardCache drops the cached dashboard aggregates after a
// period write. Best effort: a cold cache is never an error.
func invalidateDashboardCache() {
	if err := redis.DeleteByPrefix(context.Background(), dashboardCachePrefix); err != nil {
		logger.Warn("Failed to invalidate dashboard cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
