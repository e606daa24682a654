// Package chat assembles responses to free-text weather questions: it
// resolves intent, aggregates IPMA data and decides which artifacts (prose,
// chart, map) the reply carries.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/migcruzz/Ipma-Expert/internal/forecast"
	"github.com/migcruzz/Ipma-Expert/internal/intent"
	"github.com/migcruzz/Ipma-Expert/internal/ipma"
	"github.com/migcruzz/Ipma-Expert/internal/models"
	"github.com/migcruzz/Ipma-Expert/internal/narrative"
	"github.com/migcruzz/Ipma-Expert/internal/observability"
	"github.com/migcruzz/Ipma-Expert/internal/render"
)

// Canned replies for the expected unresolved-intent outcomes. These are
// responses, not errors: the pipeline always answers.
const (
	replyEmpty = "Desculpa, não recebi nenhuma mensagem. Podes tentar novamente?"

	replyUnresolved = "Desculpa, não consegui processar o teu pedido. " +
		"Podes reformular indicando cidade e o que pretendes?"

	replyAllLead = "Mapa e gráficos de todas as cidades:"
)

// Result is the structured outcome of one chat message, rendered by the web
// layer. Fragment fields are empty when the branch did not produce them.
type Result struct {
	UserMessage string          `json:"userMessage"`
	Reply       string          `json:"reply"`
	ChartHTML   string          `json:"chartHTML,omitempty"`
	MapHTML     string          `json:"mapHTML,omitempty"`
	Charts      []LocationChart `json:"charts,omitempty"`
}

// LocationChart is one per-location chart of the all-locations branch.
type LocationChart struct {
	Local string `json:"local"`
	HTML  string `json:"html"`
}

// Service is the response assembler.
type Service struct {
	data       ipma.DataSource
	narrator   narrative.Backend
	logger     *zap.Logger
	allWorkers int
}

// NewService wires the assembler. allWorkers bounds the concurrent
// per-location aggregation of the all-locations branch (minimum 1).
func NewService(data ipma.DataSource, narrator narrative.Backend, logger *zap.Logger, allWorkers int) *Service {
	if allWorkers < 1 {
		allWorkers = 1
	}
	return &Service{
		data:       data,
		narrator:   narrator,
		logger:     logger,
		allWorkers: allWorkers,
	}
}

// HandleMessage runs the pipeline for one message. Expected unresolved
// outcomes (empty message, unknown city, missing intent) come back as a
// Result with a clarification reply and nil error; only upstream faults
// return an error.
func (s *Service) HandleMessage(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		observability.ChatMessagesTotal.WithLabelValues("empty").Inc()
		return Result{UserMessage: text, Reply: replyEmpty}, nil
	}

	logger := s.requestLogger(ctx)

	// Intent resolution needs the directory for the location lookup; the
	// same listing serves the all-locations branch.
	locations, err := s.data.Locations(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolve intent: %w", err)
	}
	flags := intent.Extract(text, locations)
	logger.Debug("intent resolved",
		zap.Bool("chart", flags.WantsChart),
		zap.Bool("forecast", flags.WantsForecast),
		zap.Bool("map", flags.WantsMap),
		zap.Bool("all_locations", flags.AllLocations),
		zap.Bool("location_found", flags.Location != nil))

	if flags.AllLocations {
		observability.ChatMessagesTotal.WithLabelValues("all_locations").Inc()
		return s.handleAllLocations(ctx, text, flags, locations, logger)
	}

	if flags.Location == nil || !flags.WantsForecast {
		if flags.WantsForecast && flags.AttemptedName != "" {
			observability.ChatMessagesTotal.WithLabelValues("not_found").Inc()
			reply := fmt.Sprintf("Não encontrei '%s'. Podes confirmar o nome?", flags.AttemptedName)
			return Result{UserMessage: text, Reply: reply}, nil
		}
		observability.ChatMessagesTotal.WithLabelValues("unresolved").Inc()
		return Result{UserMessage: text, Reply: replyUnresolved}, nil
	}

	observability.ChatMessagesTotal.WithLabelValues("single").Inc()
	return s.handleSingleLocation(ctx, text, flags, logger)
}

// handleSingleLocation serves a resolved single-location request: aggregate,
// normalize, narrate, and attach chart/map fragments when asked for.
func (s *Service) handleSingleLocation(ctx context.Context, text string, flags intent.Flags, logger *zap.Logger) (Result, error) {
	loc := *flags.Location

	bundle, err := s.data.FetchBundle(ctx, loc.GlobalID)
	if err != nil {
		return Result{}, fmt.Errorf("aggregate data for %s: %w", loc.Name, err)
	}
	if len(bundle.Forecast) == 0 {
		return Result{}, fmt.Errorf("%w: empty forecast for %s", ipma.ErrUpstreamFailure, loc.Name)
	}

	days := forecast.SummarizeAll(bundle.Forecast, bundle.WeatherTypes, bundle.PrecipClasses)
	today := days[0]

	prose, err := s.narrator.Describe(ctx, loc.Name, today)
	if err != nil {
		return Result{}, fmt.Errorf("narrate forecast for %s: %w", loc.Name, err)
	}

	result := Result{UserMessage: text, Reply: prose}
	if flags.WantsChart {
		result.ChartHTML = render.TemperatureChart(days)
	}
	if flags.WantsMap {
		popup := fmt.Sprintf("%s %s, %s°C–%s°C", today.Emoji, today.WeatherDesc, today.TempMin, today.TempMax)
		result.MapHTML = render.LocationMap(loc.Latitude, loc.Longitude, popup)
	}
	logger.Info("chat answered",
		zap.String("branch", "single"),
		zap.String("location", loc.Name),
		zap.Bool("chart", flags.WantsChart),
		zap.Bool("map", flags.WantsMap))
	return result, nil
}

// handleAllLocations aggregates every directory location with a bounded
// worker pool, keeping results in directory order so the marker order of the
// national map is deterministic. A location whose aggregation fails keeps a
// name-only marker instead of failing the request.
func (s *Service) handleAllLocations(ctx context.Context, text string, flags intent.Flags, locations []models.Location, logger *zap.Logger) (Result, error) {
	type locOutcome struct {
		today models.DaySummary
		days  []models.DaySummary
		ok    bool
	}
	outcomes := make([]locOutcome, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.allWorkers)
	for i, loc := range locations {
		i, loc := i, loc
		g.Go(func() error {
			bundle, err := s.data.FetchBundle(gctx, loc.GlobalID)
			if err != nil || len(bundle.Forecast) == 0 {
				logger.Warn("all-locations aggregation degraded",
					zap.String("location", loc.Name), zap.Error(err))
				return nil
			}
			days := forecast.SummarizeAll(bundle.Forecast, bundle.WeatherTypes, bundle.PrecipClasses)
			outcomes[i] = locOutcome{today: days[0], days: days, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	summaries := make(map[int]models.DaySummary, len(locations))
	var charts []LocationChart
	for i, loc := range locations {
		if !outcomes[i].ok {
			continue
		}
		summaries[loc.GlobalID] = outcomes[i].today
		if flags.WantsChart {
			charts = append(charts, LocationChart{
				Local: loc.Name,
				HTML:  render.TemperatureChart(outcomes[i].days),
			})
		}
	}

	logger.Info("chat answered",
		zap.String("branch", "all_locations"),
		zap.Int("locations", len(locations)),
		zap.Int("aggregated", len(summaries)),
		zap.Bool("charts", flags.WantsChart))
	return Result{
		UserMessage: text,
		Reply:       replyAllLead,
		MapHTML:     render.NationalMap(locations, summaries),
		Charts:      charts,
	}, nil
}

func (s *Service) requestLogger(ctx context.Context) *zap.Logger {
	if l := observability.LoggerFromContext(ctx); l != nil {
		return l
	}
	if s.logger != nil {
		return s.logger
	}
	return zap.NewNop()
}
