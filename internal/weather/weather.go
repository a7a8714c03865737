// Package weather supplies daily forecast summaries for layout
// annotations. Forecasts degrade to an "unavailable" sentinel rather
// than erroring: a missing forecast must never block a render.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	appLog "rmagenda/internal/log"
	"rmagenda/internal/model"
)

// ForecastHorizonDays is how far ahead the provider is consulted. Dates
// beyond the horizon return the unavailable sentinel without a fetch.
const ForecastHorizonDays = 7

// Provider returns the daily forecast for a calendar day.
type Provider interface {
	Forecast(ctx context.Context, date time.Time) (model.Forecast, error)
}

// OWMClient fetches forecasts from the OpenWeatherMap 5-day API.
type OWMClient struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	location string
	units    string
	now      func() time.Time
}

// NewOWMClient builds a client for the given API key and location query
// (e.g. "Berlin,DE"). Units is "metric" or "imperial".
func NewOWMClient(apiKey, location, units string) *OWMClient {
	if units == "" {
		units = "metric"
	}
	return &OWMClient{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  "https://api.openweathermap.org/data/2.5/forecast",
		apiKey:   apiKey,
		location: location,
		units:    units,
		now:      time.Now,
	}
}

// owmResponse mirrors the subset of the forecast payload we consume.
type owmResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast returns the daily summary for date. Unconfigured credentials,
// dates beyond the horizon, network failures, and days absent from the
// response all yield the unavailable sentinel with a nil error.
func (c *OWMClient) Forecast(ctx context.Context, date time.Time) (model.Forecast, error) {
	if c.apiKey == "" || c.location == "" {
		return model.Unavailable(date), nil
	}
	if date.Sub(c.now()) > ForecastHorizonDays*24*time.Hour {
		return model.Unavailable(date), nil
	}

	q := url.Values{}
	q.Set("q", c.location)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		appLog.Error("weather request build failed", err, "location", c.location)
		return model.Unavailable(date), nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		appLog.Error("weather fetch failed", err, "location", c.location)
		return model.Unavailable(date), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		appLog.Error("weather fetch non-OK", fmt.Errorf("status %d", resp.StatusCode), "location", c.location)
		return model.Unavailable(date), nil
	}

	var payload owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		appLog.Error("weather decode failed", err, "location", c.location)
		return model.Unavailable(date), nil
	}

	return pickDaily(payload, date), nil
}

// pickDaily selects the sample for the requested day, preferring a
// midday (09:00-15:00) reading when one exists.
func pickDaily(payload owmResponse, date time.Time) model.Forecast {
	wantKey := model.DayKey(date)
	var chosen *model.Forecast

	for _, item := range payload.List {
		ts := time.Unix(item.Dt, 0).In(date.Location())
		if model.DayKey(ts) != wantKey {
			continue
		}
		condition := ""
		if len(item.Weather) > 0 {
			condition = item.Weather[0].Description
		}
		f := model.Forecast{
			Date:         date,
			TemperatureC: item.Main.Temp,
			Condition:    condition,
			Available:    true,
		}
		h := ts.Hour()
		if h >= 9 && h <= 15 {
			return f
		}
		if chosen == nil {
			chosen = &f
		}
	}

	if chosen != nil {
		return *chosen
	}
	return model.Unavailable(date)
}
