package ipma

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const (
	locationsJSON = `{"owner":"IPMA","data":[
		{"local":"Porto","globalIdLocal":1131200,"latitude":"41.1495","longitude":"-8.6108"},
		{"local":"Lisboa","globalIdLocal":1110600,"latitude":"38.7660","longitude":"-9.1286"}
	]}`
	forecastJSON = `{"data":[
		{"forecastDate":"2026-08-25","tMin":"17.2","tMax":"26.9","predWindDir":"NW",
		 "idWeatherType":2,"classPrecInt":2,"precipitaProb":"15.0"},
		{"forecastDate":"2026-08-26","tMin":"16.0","tMax":"25.1","predWindDir":"N",
		 "idWeatherType":1,"precitaProb":"5.0"}
	]}`
	weatherTypesJSON = `{"data":[
		{"idWeatherType":1,"descWeatherTypePT":"Céu limpo"},
		{"idWeatherType":2,"descWeatherTypePT":"Céu pouco nublado"}
	]}`
	precipClassesJSON = `{"data":[
		{"classPrecInt":"1","descClassPrecIntPT":"fraco"},
		{"classPrecInt":"2","descClassPrecIntPT":"moderado"}
	]}`
)

func newTestServer(t *testing.T, failPath string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == failPath {
				http.Error(w, "upstream down", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	serve("/distrits-islands.json", locationsJSON)
	serve("/forecast/meteorology/cities/daily/1131200.json", forecastJSON)
	serve("/weather-type-classe.json", weatherTypesJSON)
	serve("/precipitation-classe.json", precipClassesJSON)
	return httptest.NewServer(mux)
}

// TestLocations verifies directory parsing, including string coordinates.
func TestLocations(t *testing.T) {
	srv := newTestServer(t, "")
	defer srv.Close()

	c, err := NewClient(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	locs, err := c.Locations(context.Background())
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("len = %d, want 2", len(locs))
	}
	porto := locs[0]
	if porto.Name != "Porto" || porto.GlobalID != 1131200 {
		t.Errorf("unexpected first location: %+v", porto)
	}
	if porto.Latitude != 41.1495 || porto.Longitude != -8.6108 {
		t.Errorf("coordinates not parsed: %+v", porto)
	}
}

// TestDailyForecast verifies day records tolerate numeric and string
// classification codes and both probability spellings.
func TestDailyForecast(t *testing.T) {
	srv := newTestServer(t, "")
	defer srv.Close()

	c, _ := NewClient(srv.URL, 2*time.Second)
	days, err := c.DailyForecast(context.Background(), 1131200)
	if err != nil {
		t.Fatalf("DailyForecast: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("len = %d, want 2", len(days))
	}
	if days[0].PrecipClass.String() != "2" {
		t.Errorf("numeric classPrecInt = %q, want \"2\"", days[0].PrecipClass)
	}
	if days[0].PrecipitaProb.String() != "15.0" {
		t.Errorf("precipitaProb = %q", days[0].PrecipitaProb)
	}
	if days[1].PrecitaProb.String() != "5.0" {
		t.Errorf("precitaProb = %q", days[1].PrecitaProb)
	}
	if days[1].PrecipClass.String() != "" {
		t.Errorf("absent classPrecInt = %q, want empty", days[1].PrecipClass)
	}
}

// TestFetchBundle verifies the four datasets land in one bundle.
func TestFetchBundle(t *testing.T) {
	srv := newTestServer(t, "")
	defer srv.Close()

	c, _ := NewClient(srv.URL, 2*time.Second)
	b, err := c.FetchBundle(context.Background(), 1131200)
	if err != nil {
		t.Fatalf("FetchBundle: %v", err)
	}
	if len(b.Locations) != 2 || len(b.Forecast) != 2 || len(b.WeatherTypes) != 2 || len(b.PrecipClasses) != 2 {
		t.Errorf("incomplete bundle: %+v", b)
	}
}

// TestFetchBundle_FailFast verifies one failing fetch fails the whole bundle.
func TestFetchBundle_FailFast(t *testing.T) {
	paths := []string{
		"/distrits-islands.json",
		"/forecast/meteorology/cities/daily/1131200.json",
		"/weather-type-classe.json",
		"/precipitation-classe.json",
	}
	for _, failPath := range paths {
		t.Run(failPath, func(t *testing.T) {
			srv := newTestServer(t, failPath)
			defer srv.Close()

			c, _ := NewClient(srv.URL, 2*time.Second)
			_, err := c.FetchBundle(context.Background(), 1131200)
			if !errors.Is(err, ErrUpstreamFailure) {
				t.Fatalf("err = %v, want ErrUpstreamFailure", err)
			}
		})
	}
}

// TestPing verifies reachability checks against both healthy and failing
// directories.
func TestPing(t *testing.T) {
	srv := newTestServer(t, "")
	defer srv.Close()
	c, _ := NewClient(srv.URL, 2*time.Second)
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping healthy: %v", err)
	}

	down := newTestServer(t, "/distrits-islands.json")
	defer down.Close()
	c2, _ := NewClient(down.URL, 2*time.Second)
	if err := c2.Ping(context.Background()); !errors.Is(err, ErrUpstreamFailure) {
		t.Errorf("Ping down: err = %v, want ErrUpstreamFailure", err)
	}
}

// TestNewClient_Validation verifies constructor preconditions.
func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", time.Second); err == nil {
		t.Error("expected error for empty base URL")
	}
}
