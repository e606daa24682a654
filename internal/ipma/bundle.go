package ipma

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/migcruzz/Ipma-Expert/internal/models"
)

// Bundle holds the four datasets one forecast answer is assembled from.
type Bundle struct {
	Locations     []models.Location
	Forecast      []models.ForecastDay
	WeatherTypes  []models.WeatherType
	PrecipClasses []models.PrecipClass
}

// FetchBundle retrieves the directory, the daily forecast for globalID and the
// two classification tables. The four fetches are independent and run
// concurrently; the first failure cancels the rest and fails the whole bundle.
func (c *Client) FetchBundle(ctx context.Context, globalID int) (Bundle, error) {
	var b Bundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		locs, err := c.Locations(ctx)
		if err != nil {
			return err
		}
		b.Locations = locs
		return nil
	})
	g.Go(func() error {
		days, err := c.DailyForecast(ctx, globalID)
		if err != nil {
			return err
		}
		b.Forecast = days
		return nil
	})
	g.Go(func() error {
		types, err := c.WeatherTypes(ctx)
		if err != nil {
			return err
		}
		b.WeatherTypes = types
		return nil
	})
	g.Go(func() error {
		classes, err := c.PrecipitationClasses(ctx)
		if err != nil {
			return err
		}
		b.PrecipClasses = classes
		return nil
	})

	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}
