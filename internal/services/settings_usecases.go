package services

import (
	"context"
	"log/slog"

	"freela/internal/core"
)

// GetSettings returns the current settings, creating the defaults on first use.
type GetSettings struct{ Deps }

func (uc *GetSettings) Execute(ctx context.Context, _ struct{}) Result[core.Settings] {
	return execute(ctx, "get_settings", func() (core.Settings, error) {
		return uc.Settings.Get(ctx)
	})
}

// UpdateSettingsInput lists the settings to change; nil keeps the current value.
type UpdateSettingsInput struct {
	RateKm                   *core.Money `json:"rateKm"`
	RateTravelTime           *core.Money `json:"rateTravelTime"`
	DefaultReimbursementDays *int        `json:"defaultReimbursementDays"`
	MaxHotelRate             *core.Money `json:"maxHotelRate"`
	StandardDailyRate        *core.Money `json:"standardDailyRate"`
	OvertimeRate             *core.Money `json:"overtimeRate"`
}

// UpdateSettings applies a partial change. Existing transactions keep their amounts.
type UpdateSettings struct{ Deps }

func (uc *UpdateSettings) Execute(ctx context.Context, in UpdateSettingsInput) Result[core.Settings] {
	return execute(ctx, "update_settings", func() (core.Settings, error) {
		cur, err := uc.Settings.Get(ctx)
		if err != nil {
			return core.Settings{}, err
		}
		next, err := cur.Apply(core.SettingsPatch{
			RateKm:                   in.RateKm,
			RateTravelTime:           in.RateTravelTime,
			DefaultReimbursementDays: in.DefaultReimbursementDays,
			MaxHotelRate:             in.MaxHotelRate,
			StandardDailyRate:        in.StandardDailyRate,
			OvertimeRate:             in.OvertimeRate,
		}, uc.now())
		if err != nil {
			return core.Settings{}, err
		}
		if err := uc.Settings.Save(ctx, next); err != nil {
			return core.Settings{}, err
		}
		slog.InfoContext(ctx, "Settings updated",
			"rate_km", next.RateKm.String(),
			"overtime_rate", next.OvertimeRate.String(),
			"reimbursement_days", next.DefaultReimbursementDays)
		return next, nil
	})
}
