package services

import "errors"

// Report service errors
var (
	ErrNoPanelData    = errors.New("no panel data in analysis window")
	ErrNoCorrelations = errors.New("no correlation data available")
	ErrNoRankings     = errors.New("no ranking data available")
	ErrNoForecasts    = errors.New("no forecastable entities")
	ErrInvalidOptions = errors.New("invalid report options")
	ErrUnknownMetric  = errors.New("unknown ranking metric")
)
