package layout

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmagenda/internal/device"
	"rmagenda/internal/model"
	"rmagenda/internal/store"
)

var hourLabelRe = regexp.MustCompile(`^\d{2}:00$`)

type stubWeather struct {
	available bool
}

func (w stubWeather) Forecast(_ context.Context, date time.Time) (model.Forecast, error) {
	if !w.available {
		return model.Unavailable(date), nil
	}
	return model.Forecast{Date: date, TemperatureC: 18, Condition: "cloudy", Available: true}, nil
}

type failingWeather struct{}

func (failingWeather) Forecast(_ context.Context, date time.Time) (model.Forecast, error) {
	return model.Forecast{}, errors.New("weather offline")
}

func TestWeekAxisShape(t *testing.T) {
	t.Parallel()

	for _, profileID := range []string{"remarkable1", "remarkable2", "paperpro"} {
		e := newTestEngine(profileID, nil)
		page, err := e.Week(context.Background(), time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		hourLabels := 0
		dayHeaders := 0
		for _, txt := range textsOf(page.Instructions) {
			if hourLabelRe.MatchString(txt.Content) {
				hourLabels++
			}
			switch txt.Content {
			case "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun":
				dayHeaders++
			}
		}
		assert.Equal(t, 13, hourLabels, "13 hour rows regardless of device (%s)", profileID)
		assert.Equal(t, 7, dayHeaders, "7 day columns regardless of device (%s)", profileID)
	}
}

func TestWeekStartsOnMonday(t *testing.T) {
	t.Parallel()

	// Anchor on a Sunday; the week runs from the preceding Monday.
	anchor := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)
	e := newTestEngine("remarkable2", nil)

	page, err := e.Week(context.Background(), anchor)
	require.NoError(t, err)
	assert.True(t, hasText(page.Instructions, "Week of January 8"))
}

func TestWeekEventPlacedInStartHourRow(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	occs := []model.Occurrence{
		{Summary: "Long workshop", Start: day.Add(9 * time.Hour), End: day.Add(12 * time.Hour)},
	}
	e := newTestEngine("remarkable2", occs)

	page, err := e.Week(context.Background(), day)
	require.NoError(t, err)

	// Exactly one placement despite spanning three hour rows.
	count := 0
	for _, txt := range textsOf(page.Instructions) {
		if txt.Content == "Long workshop" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestWeekWeatherFragments(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	withWeather := New(device.ProfileFor("remarkable2"), store.New(nil), stubWeather{available: true})
	page, err := withWeather.Week(context.Background(), anchor)
	require.NoError(t, err)

	fragments := 0
	for _, txt := range textsOf(page.Instructions) {
		if txt.Content == "cloudy 18°" {
			fragments++
		}
	}
	assert.Equal(t, 7, fragments, "one fragment per day header")
}

func TestWeekWithoutWeatherRendersNoFragments(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	for name, e := range map[string]*Engine{
		"nil provider":         newTestEngine("remarkable2", nil),
		"unavailable provider": New(device.ProfileFor("remarkable2"), store.New(nil), stubWeather{}),
		"failing provider":     New(device.ProfileFor("remarkable2"), store.New(nil), failingWeather{}),
	} {
		page, err := e.Week(context.Background(), anchor)
		require.NoError(t, err, name)
		assert.False(t, hasText(page.Instructions, "°"), "%s must not emit weather text", name)
	}
}
