package coop

import (
	"context"

	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

// PeriodTotals aggregates production figures over one reporting period.
type PeriodTotals struct {
	Period    string
	Reports   int64
	ProduceKg float64
	Revenue   float64
}

type ReportRepository interface {
	Find(ctx context.Context, unitID uint, period string) ([]*model.Report, error)
	GetByID(ctx context.Context, reportID uint) (*model.Report, error)
	Create(ctx context.Context, report *model.Report) error
	Updates(ctx context.Context, reportID uint, columns map[string]interface{}) error
	Delete(ctx context.Context, reportID uint) error
	TotalsForPeriod(ctx context.Context, period string) (*PeriodTotals, error)
}

type reportRepository struct {
	db *gorm.DB
}

// Find lists reports filtered by unit and/or period; zero values mean no filter.
func (r *reportRepository) Find(ctx context.Context, unitID uint, period string) ([]*model.Report, error) {
	var reports []*model.Report
	query := r.db.WithContext(ctx).Order("period DESC")
	if unitID != 0 {
		query = query.Where("unit_id = ?", unitID)
	}
	if period != "" {
		query = query.Where("period = ?", period)
	}
	err := query.Find(&reports).Error
	return reports, err
}

func (r *reportRepository) GetByID(ctx context.Context, reportID uint) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", reportID).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) Updates(ctx context.Context, reportID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", reportID).Updates(columns).Error
}

func (r *reportRepository) Delete(ctx context.Context, reportID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Report{}, "id = ?", reportID).Error
}

func (r *reportRepository) TotalsForPeriod(ctx context.Context, period string) (*PeriodTotals, error) {
	totals := PeriodTotals{Period: period}
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Select("COUNT(*) AS reports, COALESCE(SUM(produce_kg), 0) AS produce_kg, COALESCE(SUM(revenue), 0) AS revenue").
		Where("period = ?", period).
		Row().Scan(&totals.Reports, &totals.ProduceKg, &totals.Revenue)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}
