package coop

import (
	"context"
	"time"
)

// DashboardStats is the aggregate snapshot shown on the landing dashboard.
type DashboardStats struct {
	Zones     int64   `json:"zones"`
	Units     int64   `json:"units"`
	Members   int64   `json:"members"`
	Period    string  `json:"period"`
	Reports   int64   `json:"reports"`
	ProduceKg float64 `json:"produceKg"`
	Revenue   float64 `json:"revenue"`
}

// CurrentPeriod formats the reporting period (YYYY-MM) for a point in time.
func CurrentPeriod(at time.Time) string {
	return at.Format("2006-01")
}

// Dashboard gathers the aggregate counts plus the production totals for the
// given period.
func (s *CoopService) Dashboard(ctx context.Context, period string) (*DashboardStats, error) {
	stats := DashboardStats{Period: period}

	var err error
	if stats.Zones, err = s.zoneRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Units, err = s.unitRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Members, err = s.memberRepo.Count(ctx); err != nil {
		return nil, err
	}

	totals, err := s.reportRepo.TotalsForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	stats.Reports = totals.Reports
	stats.ProduceKg = totals.ProduceKg
	stats.Revenue = totals.Revenue
	return &stats, nil
}
