package service

import (
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

type SettingsRequest struct {
	TargetBedtime            string `json:"target_bedtime" validate:"required,datetime=15:04"`
	TargetWake               string `json:"target_wake" validate:"required,datetime=15:04"`
	MidpointToleranceMinutes int    `json:"midpoint_tolerance_minutes" validate:"gte=0,lte=720"`
	RemindersEnabled         bool   `json:"reminders_enabled"`
}

func ValidateSettingsRequest(req *SettingsRequest) error {
	return validate.Struct(req)
}

func (req *SettingsRequest) ToSettings() internal.Settings {
	return internal.Settings{
		TargetBedtime:            req.TargetBedtime,
		TargetWake:               req.TargetWake,
		MidpointToleranceMinutes: req.MidpointToleranceMinutes,
		RemindersEnabled:         req.RemindersEnabled,
	}
}

// MidpointOnTarget reports whether a night's sleep midpoint falls
// within the configured tolerance of the target midpoint (halfway
// between target bedtime and target wake, wrapping midnight). Nil when
// the night has no midpoint.
func MidpointOnTarget(n internal.NightSummary, settings internal.Settings, loc *time.Location) *bool {
	if n.Midpoint == nil {
		return nil
	}
	bed, ok1 := clockMinutes(settings.TargetBedtime)
	wake, ok2 := clockMinutes(settings.TargetWake)
	if !ok1 || !ok2 {
		return nil
	}
	if wake <= bed {
		wake += 24 * 60
	}
	target := ((bed + wake) / 2) % (24 * 60)

	mid := n.Midpoint.In(loc)
	actual := mid.Hour()*60 + mid.Minute()

	diff := actual - target
	if diff < 0 {
		diff = -diff
	}
	if wrapped := 24*60 - diff; wrapped < diff {
		diff = wrapped
	}
	onTarget := diff <= settings.MidpointToleranceMinutes
	return &onTarget
}

func clockMinutes(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
