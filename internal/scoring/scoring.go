// FilePath: internal/scoring/scoring.go
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
)

// Scorer resolves effective targets and grades a day's readings against them
// in one-hour buckets.
type Scorer struct {
	readings     repository.SensorDataRepository
	calibrations repository.CalibrationRepository
	profiles     repository.PlantProfileRepository
	defaults     config.TargetDefaults
}

func NewScorer(
	readings repository.SensorDataRepository,
	calibrations repository.CalibrationRepository,
	profiles repository.PlantProfileRepository,
	defaults config.TargetDefaults,
) *Scorer {
	return &Scorer{
		readings:     readings,
		calibrations: calibrations,
		profiles:     profiles,
		defaults:     defaults,
	}
}

// MetricAverages are the per-bucket (or whole-day) observed averages. A metric
// with no data points in the window stays nil.
type MetricAverages struct {
	Lux             *float64 `json:"lux"`
	MoisturePercent *float64 `json:"moisture_percent"`
	Temperature     *float64 `json:"temperature"`
	Humidity        *float64 `json:"humidity"`
	UVIndex         *float64 `json:"uv_index"`
}

// BucketScore grades one hour of readings.
type BucketScore struct {
	Hour      int            `json:"hour"`
	Start     time.Time      `json:"start"`
	Readings  int            `json:"readings"`
	Averages  MetricAverages `json:"averages"`
	Score     *float64       `json:"score"`
	Condition string         `json:"condition"`
}

// DayScore is the full scoring result for one calendar day.
type DayScore struct {
	Day         time.Time      `json:"day"`
	Fruit       *string        `json:"fruit,omitempty"`
	Targets     Targets        `json:"targets"`
	Buckets     []BucketScore  `json:"buckets"`
	DayAverages MetricAverages `json:"day_averages"`
	Score       *float64       `json:"score"`
	Condition   string         `json:"condition"`
	Suggestions []string       `json:"suggestions"`
}

// ScoreDay resolves targets for the fruit, buckets the day's readings hourly
// and grades each bucket plus the day as a whole. A day without readings
// yields N/A buckets and an empty suggestion list, not an error.
func (s *Scorer) ScoreDay(ctx context.Context, day time.Time, fruit *string) (*DayScore, error) {
	targets, err := s.ResolveTargets(ctx, fruit)
	if err != nil {
		return nil, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	readings, err := s.readings.ListRange(ctx, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	result := &DayScore{
		Day:         start,
		Fruit:       fruit,
		Targets:     *targets,
		Buckets:     make([]BucketScore, 0, 24),
		DayAverages: averages(readings),
		Suggestions: []string{},
	}

	bucketScores := []float64{}
	for hour := 0; hour < 24; hour++ {
		bucketStart := start.Add(time.Duration(hour) * time.Hour)
		bucket := bucketReadings(readings, bucketStart)

		score := BucketScore{
			Hour:     hour,
			Start:    bucketStart,
			Readings: len(bucket),
			Averages: averages(bucket),
		}
		score.Score = conditionScore(score.Averages, targets)
		score.Condition = ConditionLabel(score.Score)
		if score.Score != nil {
			bucketScores = append(bucketScores, *score.Score)
		}
		result.Buckets = append(result.Buckets, score)
	}

	if len(bucketScores) > 0 {
		sum := 0.0
		for _, v := range bucketScores {
			sum += v
		}
		day := round2(sum / float64(len(bucketScores)))
		result.Score = &day
	}
	result.Condition = ConditionLabel(result.Score)
	result.Suggestions = suggestions(result.DayAverages, targets)
	return result, nil
}

func bucketReadings(readings []models.SensorReading, start time.Time) []models.SensorReading {
	end := start.Add(time.Hour)
	bucket := []models.SensorReading{}
	for i := range readings {
		ts := readings[i].Timestamp
		if !ts.Before(start) && ts.Before(end) {
			bucket = append(bucket, readings[i])
		}
	}
	return bucket
}

func averages(readings []models.SensorReading) MetricAverages {
	if len(readings) == 0 {
		return MetricAverages{}
	}
	var lux, moisture, temperature, humidity, uv float64
	for i := range readings {
		lux += readings[i].Lux
		moisture += readings[i].MoisturePercent
		temperature += readings[i].Temperature
		humidity += readings[i].Humidity
		uv += readings[i].UVIndex
	}
	n := float64(len(readings))
	return MetricAverages{
		Lux:             ptr(round2(lux / n)),
		MoisturePercent: ptr(round2(moisture / n)),
		Temperature:     ptr(round2(temperature / n)),
		Humidity:        ptr(round2(humidity / n)),
		UVIndex:         ptr(round2(uv / n)),
	}
}

// conditionScore is the mean of the per-metric deviation scores. Metrics
// lacking either a target or an observed average are excluded, not scored as
// zero. No scorable metric at all yields nil.
func conditionScore(observed MetricAverages, targets *Targets) *float64 {
	scores := []float64{}
	pairs := []struct {
		observed *float64
		target   *float64
	}{
		{observed.Lux, targets.SunlightLux},
		{observed.MoisturePercent, targets.MoisturePercent},
		{observed.Temperature, targets.TemperatureC},
		{observed.Humidity, targets.HumidityPercent},
		{observed.UVIndex, targets.UVIndex},
	}
	for _, pair := range pairs {
		if pair.observed == nil || pair.target == nil {
			continue
		}
		scores = append(scores, float64(DeviationScore(*pair.observed, *pair.target)))
	}
	if len(scores) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	result := round2(sum / float64(len(scores)))
	return &result
}

// DeviationScore maps the relative deviation of an observed value from its
// target to an integer score 0 (worst) to 4 (best).
func DeviationScore(observed, target float64) int {
	var deviation float64
	if target == 0 {
		deviation = math.Abs(observed)
	} else {
		deviation = math.Abs(observed-target) / math.Abs(target)
	}

	switch {
	case deviation > 0.5:
		return 0
	case deviation > 0.3:
		return 1
	case deviation > 0.2:
		return 2
	case deviation > 0.1:
		return 3
	default:
		return 4
	}
}

// ConditionLabel maps a numeric condition score to its display label.
func ConditionLabel(score *float64) string {
	if score == nil {
		return "N/A"
	}
	switch {
	case *score >= 3.6:
		return "Good"
	case *score >= 2.6:
		return "Favourable"
	case *score >= 1.6:
		return "Average"
	case *score >= 0.6:
		return "Poor"
	default:
		return "Worst"
	}
}

// suggestions compares whole-day averages against targets with a fixed band
// per metric and emits one advisory per violated band.
func suggestions(observed MetricAverages, targets *Targets) []string {
	result := []string{}

	if observed.MoisturePercent != nil && targets.MoisturePercent != nil {
		diff := *observed.MoisturePercent - *targets.MoisturePercent
		if diff < -5 {
			result = append(result, fmt.Sprintf(
				"Soil moisture averaged %.1f%%, more than 5%% below the %.1f%% target. Consider watering more often.",
				*observed.MoisturePercent, *targets.MoisturePercent))
		} else if diff > 5 {
			result = append(result, fmt.Sprintf(
				"Soil moisture averaged %.1f%%, more than 5%% above the %.1f%% target. Reduce watering to avoid root rot.",
				*observed.MoisturePercent, *targets.MoisturePercent))
		}
	}

	if observed.Lux != nil && targets.SunlightLux != nil && *targets.SunlightLux != 0 {
		relative := (*observed.Lux - *targets.SunlightLux) / *targets.SunlightLux
		if relative < -0.2 {
			result = append(result, fmt.Sprintf(
				"Light averaged %.0f lux, more than 20%% below the %.0f lux target. Move the plant to a brighter spot.",
				*observed.Lux, *targets.SunlightLux))
		} else if relative > 0.2 {
			result = append(result, fmt.Sprintf(
				"Light averaged %.0f lux, more than 20%% above the %.0f lux target. Provide some shade during peak hours.",
				*observed.Lux, *targets.SunlightLux))
		}
	}

	if observed.Temperature != nil && targets.TemperatureC != nil {
		diff := *observed.Temperature - *targets.TemperatureC
		if diff < -3 {
			result = append(result, fmt.Sprintf(
				"Temperature averaged %.1f°C, more than 3°C below the %.1f°C target. Move the plant somewhere warmer.",
				*observed.Temperature, *targets.TemperatureC))
		} else if diff > 3 {
			result = append(result, fmt.Sprintf(
				"Temperature averaged %.1f°C, more than 3°C above the %.1f°C target. Improve ventilation or move the plant somewhere cooler.",
				*observed.Temperature, *targets.TemperatureC))
		}
	}

	if observed.Humidity != nil && targets.HumidityPercent != nil {
		diff := *observed.Humidity - *targets.HumidityPercent
		if diff < -10 {
			result = append(result, fmt.Sprintf(
				"Humidity averaged %.1f%%, more than 10%% below the %.1f%% target. Consider misting or a humidity tray.",
				*observed.Humidity, *targets.HumidityPercent))
		} else if diff > 10 {
			result = append(result, fmt.Sprintf(
				"Humidity averaged %.1f%%, more than 10%% above the %.1f%% target. Increase airflow around the plant.",
				*observed.Humidity, *targets.HumidityPercent))
		}
	}

	if observed.UVIndex != nil && targets.UVIndex != nil {
		if *observed.UVIndex > *targets.UVIndex+1 {
			result = append(result, fmt.Sprintf(
				"UV index averaged %.1f, over 1 above the %.1f target. Shield the plant from direct midday sun.",
				*observed.UVIndex, *targets.UVIndex))
		}
	}

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
