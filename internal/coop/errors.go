package coop

import "errors"

var (
	ErrZoneNotFound   = errors.New("zone not found")
	ErrUnitNotFound   = errors.New("unit not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrReportNotFound = errors.New("report not found")
	ErrCodeTaken      = errors.New("code already in use")
	ErrPeriodReported = errors.New("report already filed for period")
	ErrNotAllowed     = errors.New("actor not allowed to manage this resource")
)
