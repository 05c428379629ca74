package domain

import (
	"slices"
	"time"
)

// DefaultForecastPeriod is the Solcast period length when none is reported.
const DefaultForecastPeriod = 30 * time.Minute

// EstimateType selects one of the forecast percentiles.
type EstimateType string

// Forecast estimate types, named after the upstream fields.
const (
	// EstimateNominal is the median (P50) estimate.
	EstimateNominal EstimateType = "pv_estimate"

	// EstimateWorst is the P10 estimate.
	EstimateWorst EstimateType = "pv_estimate10"

	// EstimateBest is the P90 estimate.
	EstimateBest EstimateType = "pv_estimate90"
)

// IsValid returns true if the estimate type is recognised.
func (e EstimateType) IsValid() bool {
	switch e {
	case EstimateNominal, EstimateWorst, EstimateBest:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e EstimateType) String() string {
	return string(e)
}

// Description returns a human-readable description.
func (e EstimateType) Description() string {
	switch e {
	case EstimateNominal:
		return "Nominal (P50)"
	case EstimateWorst:
		return "Worst case (P10)"
	case EstimateBest:
		return "Best case (P90)"
	default:
		return "Unknown"
	}
}

// ForecastPeriod is one forecast interval ending at PeriodEnd.
// Estimates are average power over the period in kW.
type ForecastPeriod struct {
	PeriodEnd time.Time
	Period    time.Duration
	Nominal   float64
	Worst     float64
	Best      float64
}

// Estimate returns the value for the given estimate type.
func (p ForecastPeriod) Estimate(e EstimateType) float64 {
	switch e {
	case EstimateWorst:
		return p.Worst
	case EstimateBest:
		return p.Best
	default:
		return p.Nominal
	}
}

// EnergyKWh returns the energy of the period for the given estimate.
func (p ForecastPeriod) EnergyKWh(e EstimateType) float64 {
	period := p.Period
	if period <= 0 {
		period = DefaultForecastPeriod
	}
	return p.Estimate(e) * period.Hours()
}

// ForecastFetch is one retrieval of a site forecast.
type ForecastFetch struct {
	ID        string
	SiteID    string
	FetchedAt time.Time
	Periods   []ForecastPeriod
}

// Datetime returns the end of the first period, which identifies the fetch
// on the upstream's clock. Zero if the fetch has no periods.
func (f ForecastFetch) Datetime() time.Time {
	if len(f.Periods) == 0 {
		return time.Time{}
	}
	return f.Periods[0].PeriodEnd
}

// HourlyProfile maps an hour of day (0-23) to energy in kWh.
type HourlyProfile map[int]float64

// Hours returns the hours present in the profile in ascending order.
func (h HourlyProfile) Hours() []int {
	hours := make([]int, 0, len(h))
	for hour := range h {
		hours = append(hours, hour)
	}
	slices.Sort(hours)
	return hours
}

// Total returns the sum of all hours.
func (h HourlyProfile) Total() float64 {
	total := 0.0
	for _, v := range h {
		total += v
	}
	return total
}

// HourlyEnergy aggregates periods ending on the given day into hourly
// energy. A period belongs to the hour one minute before its end, so a
// period ending at 13:00 counts towards 12:00. Periods with a zero estimate
// are skipped.
func HourlyEnergy(periods []ForecastPeriod, e EstimateType, day time.Time) HourlyProfile {
	loc := day.Location()
	y, m, d := day.Date()

	profile := HourlyProfile{}
	for _, p := range periods {
		if p.Estimate(e) == 0 {
			continue
		}
		end := p.PeriodEnd.In(loc)
		if ey, em, ed := end.Date(); ey != y || em != m || ed != d {
			continue
		}
		hour := end.Add(-time.Minute).Hour()
		profile[hour] += p.EnergyKWh(e)
	}
	return profile
}

// HourComparison compares forecast and real production for one hour.
type HourComparison struct {
	Hour     int
	Forecast float64
	Worst    float64
	Best     float64
	Real     float64
}

// ProductionComparison holds the hourly forecast vs. real production of a day.
type ProductionComparison struct {
	Date  string
	Hours []HourComparison
}

// Totals returns the summed forecast and real energy.
func (c ProductionComparison) Totals() (forecast, actual float64) {
	for _, h := range c.Hours {
		forecast += h.Forecast
		actual += h.Real
	}
	return forecast, actual
}

// NewProductionComparison joins forecast profiles with real production.
// Hours follow the nominal profile; worst, best and real default to zero.
func NewProductionComparison(date string, nominal, worst, best, actual HourlyProfile) ProductionComparison {
	c := ProductionComparison{Date: date}
	for _, hour := range nominal.Hours() {
		c.Hours = append(c.Hours, HourComparison{
			Hour:     hour,
			Forecast: Round3(nominal[hour]),
			Worst:    Round3(worst[hour]),
			Best:     Round3(best[hour]),
			Real:     Round3(actual[hour]),
		})
	}
	return c
}
