package render

import (
	"fmt"
	"strings"

	"github.com/migcruzz/Ipma-Expert/internal/models"
)

const (
	tileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	tileAttribution = "© OpenStreetMap contributors"

	singleMapZoom = 10

	// Fixed national view for the all-locations map.
	multiMapCenterLat = 39.5
	multiMapCenterLon = -8.0
	multiMapZoom      = 7
)

// LocationMap renders a Leaflet map centered on one location, with a single
// marker whose popup is opened.
func LocationMap(lat, lon float64, popup string) string {
	id := freshID("map")
	var b strings.Builder
	fmt.Fprintf(&b, "<div id=%q style=\"height:300px;\"></div>\n", id)
	fmt.Fprintf(&b, `<script>
  (function() {
    var map = L.map(%s).setView([%g, %g], %d);
    L.tileLayer(%s, {attribution: %s}).addTo(map);
    L.marker([%g, %g]).addTo(map).bindPopup(%s).openPopup();
  })();
</script>
`, jsString(id), lat, lon, singleMapZoom,
		jsString(tileURL), jsString(tileAttribution),
		lat, lon, jsString(popup))
	return b.String()
}

// NationalMap renders one shared Leaflet map at the fixed national view with
// a marker per directory location. A location without a summary gets a
// name-only popup rather than being dropped.
func NationalMap(locations []models.Location, summaries map[int]models.DaySummary) string {
	id := freshID("map")
	var b strings.Builder
	fmt.Fprintf(&b, "<div id=%q style=\"height:500px;\"></div>\n", id)
	fmt.Fprintf(&b, `<script>
  (function() {
    var map = L.map(%s).setView([%g, %g], %d);
    L.tileLayer(%s, {attribution: %s}).addTo(map);
`, jsString(id), multiMapCenterLat, multiMapCenterLon, multiMapZoom,
		jsString(tileURL), jsString(tileAttribution))
	for _, loc := range locations {
		popup := loc.Name
		if s, ok := summaries[loc.GlobalID]; ok {
			popup += fmt.Sprintf(" — %s %s %s°C–%s°C", s.Emoji, s.WeatherDesc, s.TempMin, s.TempMax)
		}
		fmt.Fprintf(&b, "    L.marker([%g, %g]).addTo(map).bindPopup(%s);\n",
			loc.Latitude, loc.Longitude, jsString(popup))
	}
	b.WriteString("  })();\n</script>\n")
	return b.String()
}
