// FilePath: internal/report/renderer.go
package report

import (
	"fmt"
	"strings"
)

// TextRenderer lays a report out as a plain-text document.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Extension() string {
	return ".txt"
}

func (r *TextRenderer) Render(data *Data) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "SoilSage Report\n")
	fmt.Fprintf(&b, "Period: %s to %s\n\n",
		data.Start.Format("2006-01-02 15:04"), data.End.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "Summary\n")
	fmt.Fprintf(&b, "  Readings:        %d over %d day(s)\n",
		data.Summary.TotalReadings, data.Summary.PeriodDays)
	fmt.Fprintf(&b, "  Avg temperature: %.1f C\n", data.Summary.AvgTemperature)
	fmt.Fprintf(&b, "  Avg humidity:    %.1f %%\n", data.Summary.AvgHumidity)
	fmt.Fprintf(&b, "  Avg moisture:    %.1f %%\n", data.Summary.AvgMoisture)
	fmt.Fprintf(&b, "  Avg UV index:    %.1f\n\n", data.Summary.AvgUVIndex)

	if len(data.Aggregates) > 0 {
		fmt.Fprintf(&b, "Daily summaries\n")
		for i := range data.Aggregates {
			agg := &data.Aggregates[i]
			fmt.Fprintf(&b, "  %s  sunlight %.2fh  uv %.2fh  temp %.1f/%.1f/%.1f  moisture avg %.1f%%  (%d readings)\n",
				agg.Day.Format("2006-01-02"), agg.SunlightHours, agg.UVExposureHours,
				agg.Temperature.Min, agg.Temperature.Avg, agg.Temperature.Max,
				agg.MoisturePercent.Avg, agg.TotalReadings)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(data.Readings) > 0 {
		fmt.Fprintf(&b, "Readings\n")
		for i := range data.Readings {
			r := &data.Readings[i]
			fmt.Fprintf(&b, "  %s  lux %.0f  moisture %.1f%%  temp %.1fC  humidity %.1f%%  uv %.1f\n",
				r.Timestamp.Format("2006-01-02 15:04"), r.Lux, r.MoisturePercent,
				r.Temperature, r.Humidity, r.UVIndex)
		}
	}

	return []byte(b.String()), nil
}
