// Package render produces self-contained, embeddable HTML fragments for the
// chat response: temperature charts and map overlays. Every fragment carries
// a fresh unique DOM id so several can coexist in one page.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/migcruzz/Ipma-Expert/internal/models"
)

const plotlyCDN = "https://cdn.plot.ly/plotly-2.32.0.min.js"

// TemperatureChart renders a two-series min/max temperature line chart over
// the given day summaries. Pure aside from the generated DOM id.
func TemperatureChart(days []models.DaySummary) string {
	dates := make([]string, 0, len(days))
	tmin := make([]float64, 0, len(days))
	tmax := make([]float64, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
		tmin = append(tmin, parseTemp(d.TempMin))
		tmax = append(tmax, parseTemp(d.TempMax))
	}

	id := freshID("chart")
	var b strings.Builder
	fmt.Fprintf(&b, "<div id=%q style=\"height:450px;\"></div>\n", id)
	fmt.Fprintf(&b, "<script src=%q charset=\"utf-8\"></script>\n", plotlyCDN)
	fmt.Fprintf(&b, `<script>
  Plotly.newPlot(%s, [
    {x: %s, y: %s, name: "T. Mínima", mode: "lines+markers", type: "scatter"},
    {x: %s, y: %s, name: "T. Máxima", mode: "lines+markers", type: "scatter"}
  ], {title: "Previsão de Temperatura", xaxis: {title: "Data"}, yaxis: {title: "°C"}});
</script>
`, jsString(id), jsValue(dates), jsValue(tmin), jsValue(dates), jsValue(tmax))
	return b.String()
}

func parseTemp(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// freshID returns a collision-free DOM id with the given prefix.
func freshID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// jsString renders s as a JavaScript string literal, escaping as needed.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// jsValue renders v as a JavaScript literal (arrays, numbers).
func jsValue(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
