package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"greenpulse/internal/analytics"
	"greenpulse/internal/config"
	"greenpulse/internal/panel"
)

// DriverColumns are the headline indicators of the driver correlation
// matrix.
var DriverColumns = []panel.Indicator{
	panel.GDPCapita,
	panel.FinancialFlows,
	panel.RenewableShare,
	panel.CO2TotalKt,
	panel.EnergyIntensity,
	panel.AccessElectricity,
}

// EDASummary carries the data-integrity and headline numbers logged before
// any figure is rendered.
type EDASummary struct {
	Countries          int                     `json:"countries"`
	WindowStart        int                     `json:"window_start"`
	WindowEnd          int                     `json:"window_end"`
	TotalAid           float64                 `json:"total_aid"`
	GDPCO2Corr         float64                 `json:"gdp_co2_corr"`
	IntensityBase      float64                 `json:"intensity_base"`
	IntensityEnd       float64                 `json:"intensity_end"`
	IntensityChangePct float64                 `json:"intensity_change_pct"`
	MissingCounts      map[panel.Indicator]int `json:"missing_counts"`
}

// EnergyMix is the annual generation mix with endpoint growth percentages.
type EnergyMix struct {
	Annual             []analytics.GroupAggregate `json:"annual"`
	FossilGrowthPct    float64                    `json:"fossil_growth_pct"`
	RenewableGrowthPct float64                    `json:"renewable_growth_pct"`
}

// Divergence is the indexed comparison of global GDP per capita against
// total emissions, both rebased to 100 at the base year.
type Divergence struct {
	Years    []int     `json:"years"`
	GDPIndex []float64 `json:"gdp_index"`
	CO2Index []float64 `json:"co2_index"`
}

// Empty reports whether either indexed series could not be rebased.
func (d Divergence) Empty() bool {
	return len(d.Years) == 0
}

// AidEffectiveness contrasts the aid/capacity correlation among actual
// recipients with the all-countries variant. The two answer materially
// different questions and are reported side by side.
type AidEffectiveness struct {
	RecipientsCorr   float64 `json:"recipients_corr"`
	AllCountriesCorr float64 `json:"all_countries_corr"`
	Recipients       int     `json:"recipients"`
}

// IncomeBand is one income cohort's renewable share statistics at the
// cutoff year.
type IncomeBand struct {
	Group       string  `json:"group"`
	MeanShare   float64 `json:"mean_share"`
	MedianShare float64 `json:"median_share"`
}

// Report is the full artifact bundle one pipeline run produces. All values
// are held in memory; serialization and rendering belong to the exporter
// and report packages.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	CutoffYear  int       `json:"cutoff_year"`
	BaseYear    int       `json:"base_year"`
	HorizonYear int       `json:"horizon_year"`

	EDA                EDASummary                  `json:"eda"`
	FundingTransition  []analytics.GroupAggregate  `json:"funding_transition"`
	EnergyMix          EnergyMix                   `json:"energy_mix"`
	TopAidRecipients   []analytics.Entry           `json:"top_aid_recipients"`
	GlobalDivergence   Divergence                  `json:"global_divergence"`
	DriverCorrelations analytics.CorrelationMatrix `json:"driver_correlations"`
	AidEffectiveness   AidEffectiveness            `json:"aid_effectiveness"`
	TopMovers          []analytics.Entry           `json:"top_movers"`
	IncomeDisparity    []IncomeBand                `json:"income_disparity"`
	Forecasts          []analytics.Trajectory      `json:"forecasts"`
}

// HasData reports whether the analysis window contained any observations.
// An all-empty report renders as an explicit "no data available" state.
func (r *Report) HasData() bool {
	return r.EDA.Countries > 0
}

// ReportService computes the report bundle from a validated panel. It is
// stateless between calls; every artifact is derived fresh from the input.
type ReportService struct {
	logger *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{logger: logger.With(slog.String("component", "report_service"))}
}

// Build runs every analysis section over the panel windowed at the
// configured cutoff year. Sections with no usable data come back empty
// rather than failing the run.
func (s *ReportService) Build(ctx context.Context, p panel.Panel, opts config.AnalysisConfig) (*Report, error) {
	if opts.BaseYear > opts.CutoffYear || opts.HorizonYear < opts.CutoffYear {
		return nil, fmt.Errorf("%w: base=%d cutoff=%d horizon=%d",
			ErrInvalidOptions, opts.BaseYear, opts.CutoffYear, opts.HorizonYear)
	}

	start := time.Now()
	windowed := p.Window(opts.CutoffYear)

	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		CutoffYear:  opts.CutoffYear,
		BaseYear:    opts.BaseYear,
		HorizonYear: opts.HorizonYear,
	}

	s.logger.InfoContext(ctx, "building report",
		"run_id", report.RunID,
		"observations", len(windowed),
		"cutoff_year", opts.CutoffYear,
		"base_year", opts.BaseYear,
	)

	if len(windowed) == 0 {
		s.logger.WarnContext(ctx, "analysis window is empty, producing no-data report",
			"run_id", report.RunID, "cutoff_year", opts.CutoffYear)
		return report, nil
	}

	report.EDA = s.edaSummary(p, windowed, opts)
	report.FundingTransition = analytics.Aggregate(windowed, analytics.ByYear,
		map[panel.Indicator]analytics.Reducer{
			panel.FinancialFlows:    analytics.Sum,
			panel.RenewableCapacity: analytics.Mean,
		})
	report.EnergyMix = s.energyMix(windowed)
	report.TopAidRecipients = s.topAidRecipients(windowed, opts.TopRecipients)
	report.GlobalDivergence = s.globalDivergence(windowed, opts.BaseYear)
	report.DriverCorrelations = analytics.Correlate(windowed, DriverColumns, analytics.CorrelateOptions{})
	report.AidEffectiveness = s.aidEffectiveness(windowed)
	report.TopMovers = analytics.TopN(
		analytics.GrowthBetween(windowed, panel.RenewableShare, opts.BaseYear, opts.CutoffYear),
		opts.TopMovers, false)
	report.IncomeDisparity = s.incomeDisparity(windowed, opts.CutoffYear)
	report.Forecasts = s.forecasts(ctx, windowed, report.TopMovers, opts)

	s.logger.InfoContext(ctx, "report build completed",
		"run_id", report.RunID,
		"duration", time.Since(start),
		"countries", report.EDA.Countries,
		"top_movers", len(report.TopMovers),
		"forecasts", len(report.Forecasts),
	)

	return report, nil
}

// edaSummary computes the integrity numbers. Total aid is summed over the
// full panel, not the window, matching the published headline figure.
func (s *ReportService) edaSummary(full, windowed panel.Panel, opts config.AnalysisConfig) EDASummary {
	summary := EDASummary{
		Countries:     len(windowed.Countries()),
		MissingCounts: windowed.MissingCounts(),
	}
	if years := windowed.Years(); len(years) > 0 {
		summary.WindowStart = years[0]
		summary.WindowEnd = years[len(years)-1]
	}

	// The growth/emissions coupling headline is a two-column coefficient
	// over every row where both indicators are observed, a wider sample
	// than the complete-rows driver matrix.
	decoupling := analytics.Correlate(windowed,
		[]panel.Indicator{panel.GDPCapita, panel.CO2TotalKt},
		analytics.CorrelateOptions{Completeness: analytics.PairwiseComplete})
	summary.GDPCO2Corr = decoupling.Get(panel.GDPCapita, panel.CO2TotalKt)

	aid := analytics.Aggregate(full, analytics.ByYear,
		map[panel.Indicator]analytics.Reducer{panel.FinancialFlows: analytics.Sum})
	for _, row := range aid {
		if v := row.Value(panel.FinancialFlows); !panel.IsMissing(v) {
			summary.TotalAid += v
		}
	}

	intensity := analytics.Aggregate(windowed, analytics.ByYear,
		map[panel.Indicator]analytics.Reducer{panel.EnergyIntensity: analytics.Mean})
	summary.IntensityBase = panel.Missing()
	summary.IntensityEnd = panel.Missing()
	summary.IntensityChangePct = panel.Missing()
	for _, row := range intensity {
		switch row.Year {
		case opts.BaseYear:
			summary.IntensityBase = row.Value(panel.EnergyIntensity)
		case opts.CutoffYear:
			summary.IntensityEnd = row.Value(panel.EnergyIntensity)
		}
	}
	if !panel.IsMissing(summary.IntensityBase) && summary.IntensityBase > 0 && !panel.IsMissing(summary.IntensityEnd) {
		summary.IntensityChangePct = (summary.IntensityEnd - summary.IntensityBase) / summary.IntensityBase * 100
	}

	return summary
}

func (s *ReportService) energyMix(p panel.Panel) EnergyMix {
	mix := EnergyMix{
		Annual: analytics.Aggregate(p, analytics.ByYear,
			map[panel.Indicator]analytics.Reducer{
				panel.ElecFossil:     analytics.Sum,
				panel.ElecNuclear:    analytics.Sum,
				panel.ElecRenewables: analytics.Sum,
			}),
		FossilGrowthPct:    panel.Missing(),
		RenewableGrowthPct: panel.Missing(),
	}
	if len(mix.Annual) < 2 {
		return mix
	}
	first, last := mix.Annual[0], mix.Annual[len(mix.Annual)-1]
	if f0 := first.Value(panel.ElecFossil); !panel.IsMissing(f0) && f0 != 0 {
		mix.FossilGrowthPct = (last.Value(panel.ElecFossil) - f0) / f0 * 100
	}
	if r0 := first.Value(panel.ElecRenewables); !panel.IsMissing(r0) && r0 != 0 {
		mix.RenewableGrowthPct = (last.Value(panel.ElecRenewables) - r0) / r0 * 100
	}
	return mix
}

func (s *ReportService) topAidRecipients(p panel.Panel, n int) []analytics.Entry {
	totals := analytics.Aggregate(p, analytics.ByCountry,
		map[panel.Indicator]analytics.Reducer{panel.FinancialFlows: analytics.Sum})
	entries := make([]analytics.Entry, 0, len(totals))
	for _, row := range totals {
		entries = append(entries, analytics.Entry{Name: row.Key, Value: row.Value(panel.FinancialFlows)})
	}
	return analytics.TopN(entries, n, false)
}

func (s *ReportService) globalDivergence(p panel.Panel, baseYear int) Divergence {
	annual := analytics.Aggregate(p, analytics.ByYear,
		map[panel.Indicator]analytics.Reducer{
			panel.GDPCapita:  analytics.Mean,
			panel.CO2TotalKt: analytics.Sum,
		})

	baseIdx := -1
	years := make([]int, len(annual))
	gdp := make([]float64, len(annual))
	co2 := make([]float64, len(annual))
	for i, row := range annual {
		years[i] = row.Year
		gdp[i] = row.Value(panel.GDPCapita)
		co2[i] = row.Value(panel.CO2TotalKt)
		if row.Year == baseYear {
			baseIdx = i
		}
	}
	if baseIdx < 0 {
		return Divergence{}
	}

	gdpIdx, okGDP := analytics.Rebase(gdp, baseIdx)
	co2Idx, okCO2 := analytics.Rebase(co2, baseIdx)
	if !okGDP || !okCO2 {
		// An unusable base year means the indexed comparison would be
		// non-finite; skip the section rather than render infinities.
		return Divergence{}
	}

	return Divergence{Years: years, GDPIndex: gdpIdx, CO2Index: co2Idx}
}

func (s *ReportService) aidEffectiveness(p panel.Panel) AidEffectiveness {
	pair := []panel.Indicator{panel.FinancialFlows, panel.RenewableCapacity}

	recipients := analytics.Correlate(p, pair, analytics.CorrelateOptions{
		RowFilter: analytics.FlowsAbove(0),
	})
	all := analytics.Correlate(p, pair, analytics.CorrelateOptions{})

	return AidEffectiveness{
		RecipientsCorr:   recipients.Get(panel.FinancialFlows, panel.RenewableCapacity),
		AllCountriesCorr: all.Get(panel.FinancialFlows, panel.RenewableCapacity),
		Recipients:       recipients.Observations,
	}
}

func (s *ReportService) incomeDisparity(p panel.Panel, cutoffYear int) []IncomeBand {
	crossSection := p.Filter(func(o panel.Observation) bool { return o.Year == cutoffYear })

	means := analytics.Aggregate(crossSection, analytics.ByIncomeGroup,
		map[panel.Indicator]analytics.Reducer{panel.RenewableShare: analytics.Mean})
	medians := analytics.Aggregate(crossSection, analytics.ByIncomeGroup,
		map[panel.Indicator]analytics.Reducer{panel.RenewableShare: analytics.Median})

	medianByGroup := make(map[string]float64, len(medians))
	for _, row := range medians {
		medianByGroup[row.Key] = row.Value(panel.RenewableShare)
	}

	bands := make([]IncomeBand, 0, len(means))
	for _, row := range means {
		band := IncomeBand{
			Group:       row.Key,
			MeanShare:   row.Value(panel.RenewableShare),
			MedianShare: panel.Missing(),
		}
		if m, ok := medianByGroup[row.Key]; ok {
			band.MedianShare = m
		}
		bands = append(bands, band)
	}
	return bands
}

// forecasts extrapolates the renewable share of the top movers to the
// horizon year. Entities with too little finite history are excluded, not
// forecast from an unreliable fit.
func (s *ReportService) forecasts(ctx context.Context, p panel.Panel, movers []analytics.Entry, opts config.AnalysisConfig) []analytics.Trajectory {
	n := opts.ForecastEntities
	if n > len(movers) {
		n = len(movers)
	}

	var trajectories []analytics.Trajectory
	for _, mover := range movers[:n] {
		series := analytics.SeriesOf(p, mover.Name, panel.RenewableShare)
		traj, err := analytics.Forecast(mover.Name, series, opts.HorizonYear)
		if err != nil {
			s.logger.WarnContext(ctx, "entity excluded from forecast",
				"country", mover.Name, "error", err)
			continue
		}
		trajectories = append(trajectories, traj)
	}
	return trajectories
}
