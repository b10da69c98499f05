// FilePath: internal/scoring/targets.go
package scoring

import (
	"context"
	"regexp"
	"strconv"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
)

// Targets are the effective reference values readings are scored against.
// Each metric is independently optional; a metric without a target is simply
// not scored.
type Targets struct {
	SunlightLux     *float64 `json:"sunlight_lux"`
	MoisturePercent *float64 `json:"moisture_percent"`
	TemperatureC    *float64 `json:"temperature_c"`
	HumidityPercent *float64 `json:"humidity_percent"`
	UVIndex         *float64 `json:"uv_index"`
}

// leadingNumber extracts the first numeric token of a free-text range
// descriptor such as "45-60% during fruiting".
var leadingNumber = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ResolveTargets layers the three target sources, lowest priority first:
// configured defaults, then plant-profile stage averages for the named plant,
// then the latest calibration (plant-scoped, else global). Each layer only
// overrides the fields it actually has a value for.
func (s *Scorer) ResolveTargets(ctx context.Context, fruit *string) (*Targets, error) {
	targets := defaultsAsTargets(s.defaults)

	if fruit != nil {
		profile, err := s.profiles.GetByName(ctx, *fruit)
		if err != nil && err != repository.ErrNotFound {
			return nil, err
		}
		if profile != nil {
			applyProfile(targets, profile)
		}
	}

	calibration, err := s.latestCalibration(ctx, fruit)
	if err != nil {
		return nil, err
	}
	if calibration != nil {
		applyCalibration(targets, calibration)
	}
	return targets, nil
}

// latestCalibration prefers a plant-scoped calibration and falls back to the
// global one. Absence of both is not an error.
func (s *Scorer) latestCalibration(ctx context.Context, fruit *string) (*models.Calibration, error) {
	if fruit != nil {
		calibration, err := s.calibrations.GetLatest(ctx, fruit)
		if err == nil {
			return calibration, nil
		}
		if err != repository.ErrNotFound {
			return nil, err
		}
	}

	calibration, err := s.calibrations.GetLatest(ctx, nil)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return calibration, nil
}

func defaultsAsTargets(defaults config.TargetDefaults) *Targets {
	return &Targets{
		SunlightLux:     ptr(defaults.SunlightLux),
		MoisturePercent: ptr(defaults.MoisturePercent),
		TemperatureC:    ptr(defaults.TemperatureC),
		HumidityPercent: ptr(defaults.HumidityPercent),
		UVIndex:         ptr(defaults.UVIndex),
	}
}

// applyProfile averages the parseable leading numbers of each stage descriptor
// across all growth stages. A descriptor set with no parseable value leaves
// the lower-priority target untouched.
func applyProfile(targets *Targets, profile *models.PlantProfile) {
	override(&targets.SunlightLux, stageAverage(profile.Stages, func(s *models.GrowthStage) string { return s.Sunlight }))
	override(&targets.MoisturePercent, stageAverage(profile.Stages, func(s *models.GrowthStage) string { return s.Moisture }))
	override(&targets.TemperatureC, stageAverage(profile.Stages, func(s *models.GrowthStage) string { return s.Temperature }))
	override(&targets.HumidityPercent, stageAverage(profile.Stages, func(s *models.GrowthStage) string { return s.Humidity }))
	override(&targets.UVIndex, stageAverage(profile.Stages, func(s *models.GrowthStage) string { return s.UVLight }))
}

func applyCalibration(targets *Targets, calibration *models.Calibration) {
	override(&targets.SunlightLux, calibration.Targets.SunlightLux)
	override(&targets.MoisturePercent, calibration.Targets.MoisturePercent)
	override(&targets.TemperatureC, calibration.Targets.TemperatureC)
	override(&targets.HumidityPercent, calibration.Targets.HumidityPercent)
	override(&targets.UVIndex, calibration.Targets.UVIndex)
}

func override(target **float64, value *float64) {
	if value != nil {
		*target = value
	}
}

func stageAverage(stages models.GrowthStages, descriptor func(*models.GrowthStage) string) *float64 {
	values := []float64{}
	for i := range stages {
		if v, ok := parseLeadingNumber(descriptor(&stages[i])); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

func parseLeadingNumber(text string) (float64, bool) {
	token := leadingNumber.FindString(text)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func ptr(v float64) *float64 {
	return &v
}
