package core

import "time"

// Settings holds the system-wide rates used when pricing transactions.
type Settings struct {
	RateKm                   Money     `json:"rateKm"`
	RateTravelTime           Money     `json:"rateTravelTime"`
	DefaultReimbursementDays int       `json:"defaultReimbursementDays"`
	MaxHotelRate             Money     `json:"maxHotelRate"`
	StandardDailyRate        Money     `json:"standardDailyRate"`
	OvertimeRate             Money     `json:"overtimeRate"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

// Ceilings for each rate.
var (
	MaxRateKm            = Money{Cents: 50_00}
	MaxRateTravelTime    = Money{Cents: 1_000_00}
	MaxOvertimeRate      = Money{Cents: 1_000_00}
	MaxHotelRateCeiling  = Money{Cents: 10_000_00}
	MaxStandardDailyRate = Money{Cents: 10_000_00}
)

const (
	MinReimbursementDays = 1
	MaxReimbursementDays = 365

	defaultReimbursementDays = 21
)

var (
	defaultRateKm       = Money{Cents: 90}
	defaultOvertimeRate = Money{Cents: 75_00}
	defaultHotelRate    = Money{Cents: 280_00}
	defaultDailyRate    = Money{Cents: 300_00}
)

// DefaultSettings returns the built-in defaults.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		RateKm:                   defaultRateKm,
		RateTravelTime:           defaultOvertimeRate,
		DefaultReimbursementDays: defaultReimbursementDays,
		MaxHotelRate:             defaultHotelRate,
		StandardDailyRate:        defaultDailyRate,
		OvertimeRate:             defaultOvertimeRate,
		UpdatedAt:                now.UTC(),
	}
}

func validateRate(name string, v, ceiling Money) error {
	if v.Cents < 0 {
		return Validation("%s must not be negative", name)
	}
	if v.Cents > ceiling.Cents {
		return Validation("%s must not exceed %s", name, ceiling)
	}
	return nil
}

// Validate checks every rate against its bounds.
func (s Settings) Validate() error {
	checks := []struct {
		name    string
		v, ceil Money
	}{
		{"rateKm", s.RateKm, MaxRateKm},
		{"rateTravelTime", s.RateTravelTime, MaxRateTravelTime},
		{"overtimeRate", s.OvertimeRate, MaxOvertimeRate},
		{"maxHotelRate", s.MaxHotelRate, MaxHotelRateCeiling},
		{"standardDailyRate", s.StandardDailyRate, MaxStandardDailyRate},
	}
	for _, c := range checks {
		if err := validateRate(c.name, c.v, c.ceil); err != nil {
			return err
		}
	}
	if s.DefaultReimbursementDays < MinReimbursementDays || s.DefaultReimbursementDays > MaxReimbursementDays {
		return Validation("defaultReimbursementDays must be between %d and %d", MinReimbursementDays, MaxReimbursementDays)
	}
	return nil
}

// SettingsPatch lists the fields to change; nil means keep.
type SettingsPatch struct {
	RateKm                   *Money
	RateTravelTime           *Money
	DefaultReimbursementDays *int
	MaxHotelRate             *Money
	StandardDailyRate        *Money
	OvertimeRate             *Money
}

// Apply returns s with p applied. The travel time rate follows the overtime rate
// unless it was set apart from it or is set in the same patch.
func (s Settings) Apply(p SettingsPatch, now time.Time) (Settings, error) {
	next := s
	if p.RateKm != nil {
		next.RateKm = *p.RateKm
	}
	if p.OvertimeRate != nil {
		if p.RateTravelTime == nil && s.RateTravelTime == s.OvertimeRate {
			next.RateTravelTime = *p.OvertimeRate
		}
		next.OvertimeRate = *p.OvertimeRate
	}
	if p.RateTravelTime != nil {
		next.RateTravelTime = *p.RateTravelTime
	}
	if p.DefaultReimbursementDays != nil {
		next.DefaultReimbursementDays = *p.DefaultReimbursementDays
	}
	if p.MaxHotelRate != nil {
		next.MaxHotelRate = *p.MaxHotelRate
	}
	if p.StandardDailyRate != nil {
		next.StandardDailyRate = *p.StandardDailyRate
	}
	if err := next.Validate(); err != nil {
		return s, err
	}
	next.UpdatedAt = now.UTC()
	return next, nil
}
