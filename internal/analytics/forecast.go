package analytics

import (
	"errors"
	"fmt"
	"sort"

	"greenpulse/internal/panel"
)

// MinForecastPoints is the minimum number of finite historical observations
// required to fit a trend. Below this an entity is excluded from
// forecasting entirely rather than forecast from an unreliable fit.
const MinForecastPoints = 5

// Forecast output domain. The forecast target is a percentage share, so
// raw linear extrapolation outside [0, 100] is clipped, not reported.
const (
	ForecastFloor   = 0.0
	ForecastCeiling = 100.0
)

// ErrInsufficientHistory marks an entity excluded from forecasting for
// having too few finite observations.
var ErrInsufficientHistory = errors.New("insufficient finite history for trend fit")

// Point is one (year, value) element of a time series.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Trajectory is the forecast result for a single entity: the observed
// historical segment and the projected segment. Both segments contain the
// last historical year so a renderer can draw one continuous line; the
// historical point carries the observed value, the projected point the
// fitted one.
type Trajectory struct {
	Entity    string  `json:"entity"`
	History   []Point `json:"history"`
	Projected []Point `json:"projected"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Empty reports whether the trajectory carries no data.
func (t Trajectory) Empty() bool {
	return len(t.History) == 0 && len(t.Projected) == 0
}

// Forecast fits an ordinary least-squares line value = slope*year +
// intercept over the finite points of history and extrapolates it to
// horizonEnd inclusive, clamped to [0, 100]. Fewer than MinForecastPoints
// finite points returns ErrInsufficientHistory and an empty trajectory.
// The forecaster is entity-agnostic and stateless; selecting which
// entities to forecast is the caller's (typically a ranking's) concern.
func Forecast(entity string, history []Point, horizonEnd int) (Trajectory, error) {
	finite := make([]Point, 0, len(history))
	for _, pt := range history {
		if panel.IsMissing(pt.Value) {
			continue
		}
		finite = append(finite, pt)
	}
	sort.SliceStable(finite, func(i, j int) bool { return finite[i].Year < finite[j].Year })

	if len(finite) < MinForecastPoints {
		return Trajectory{}, fmt.Errorf("entity %s: %d finite points, need %d: %w",
			entity, len(finite), MinForecastPoints, ErrInsufficientHistory)
	}

	slope, intercept := fitLine(finite)

	lastYear := finite[len(finite)-1].Year
	if horizonEnd < lastYear {
		horizonEnd = lastYear
	}

	projected := make([]Point, 0, horizonEnd-lastYear+1)
	for year := lastYear; year <= horizonEnd; year++ {
		projected = append(projected, Point{
			Year:  year,
			Value: clamp(slope*float64(year)+intercept, ForecastFloor, ForecastCeiling),
		})
	}

	return Trajectory{
		Entity:    entity,
		History:   finite,
		Projected: projected,
		Slope:     slope,
		Intercept: intercept,
	}, nil
}

// SeriesOf extracts one country's time series for an indicator, ordered by
// year. Missing values are retained so the forecaster's own finite-point
// filtering stays the single policy point.
func SeriesOf(p panel.Panel, country string, ind panel.Indicator) []Point {
	var series []Point
	for _, o := range p {
		if o.Country != country {
			continue
		}
		series = append(series, Point{Year: o.Year, Value: o.Value(ind)})
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// fitLine computes the OLS slope and intercept over finite points.
func fitLine(points []Point) (slope, intercept float64) {
	n := float64(len(points))
	var meanX, meanY float64
	for _, pt := range points {
		meanX += float64(pt.Year)
		meanY += pt.Value
	}
	meanX /= n
	meanY /= n

	var cov, varX float64
	for _, pt := range points {
		dx := float64(pt.Year) - meanX
		cov += dx * (pt.Value - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		// All observations in one year; the only defensible line is flat.
		return 0, meanY
	}
	slope = cov / varX
	intercept = meanY - slope*meanX
	return slope, intercept
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
