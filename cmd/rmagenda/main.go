package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"rmagenda/internal/config"
	"rmagenda/internal/device"
	"rmagenda/internal/doc"
	"rmagenda/internal/ics"
	"rmagenda/internal/layout"
	appLog "rmagenda/internal/log"
	"rmagenda/internal/model"
	"rmagenda/internal/pdf"
	"rmagenda/internal/store"
	"rmagenda/internal/weather"
)

type flagConfig struct {
	configPath string
	view       string
	date       string
	outDir     string
	once       bool
	verbose    bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}
	defer appLog.Sync()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.outDir != "" {
		conf.OutputDir = flags.outDir
	}

	primary, err := doc.ParseView(flags.view)
	if err != nil {
		appLog.Error("invalid -view flag", err, "view", flags.view)
		os.Exit(1)
	}

	anchor, err := parseAnchor(flags.date, conf.Timezone)
	if err != nil {
		appLog.Error("invalid -date flag", err, "date", flags.date)
		os.Exit(1)
	}

	appLog.Info("rmagenda starting",
		"device", conf.Device,
		"view", flags.view,
		"anchor", anchor.Format("2006-01-02"),
		"calendars", len(conf.Calendars),
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		if err := generate(ctx, conf, anchor, primary); err != nil {
			appLog.Error("generation failed", err)
			os.Exit(1)
		}
		return
	}

	// Daemon mode: regenerate on the configured cron schedule, anchored at
	// the current date of each run.
	c := cron.New()
	_, err = c.AddFunc(conf.RefreshCron, func() {
		loc := displayLocation(conf.Timezone)
		if err := generate(ctx, conf, time.Now().In(loc), primary); err != nil {
			appLog.Error("scheduled generation failed", err)
		}
	})
	if err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	appLog.Info("scheduler started", "refresh", conf.RefreshCron)

	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("rmagenda exiting")
}

// generate runs one fetch -> expand -> layout -> PDF cycle.
func generate(ctx context.Context, conf *config.Config, anchor time.Time, primary doc.View) error {
	reqID := uuid.NewString()[:8]
	started := time.Now()

	req := doc.Request{
		Anchor:       anchor,
		Primary:      primary,
		IncludeMonth: conf.Views.IncludeMonth,
		IncludeWeek:  conf.Views.IncludeWeek,
		IncludeDay:   conf.Views.IncludeDay,
		Tasks:        conf.Tasks,
	}
	rangeStart, rangeEnd := layout.VisibleRange(req)

	events := fetchEvents(ctx, conf, reqID)
	occs, expandErrs := ics.ExpandAll(events, rangeStart, rangeEnd, ics.ExpandOptions{
		DisplayLocation: anchor.Location(),
	})
	if len(expandErrs) > 0 {
		appLog.Info("some events skipped during expansion", "req", reqID, "skipped", len(expandErrs))
	}

	engine := layout.New(
		device.ProfileFor(conf.Device),
		store.New(occs),
		forecastProvider(conf),
	)
	document := layout.NewBuilder(engine).Build(ctx, req)

	path := filepath.Join(conf.OutputDir, pdf.Filename(req))
	if err := pdf.WriteFile(document, path); err != nil {
		return err
	}

	appLog.Info("document generated",
		"req", reqID,
		"path", path,
		"pages", len(document.Pages),
		"occurrences", len(occs),
		"elapsed", time.Since(started).String(),
	)
	return nil
}

// fetchEvents pulls and parses every configured calendar. A failed
// source only costs its own events: rendering proceeds with whatever
// loaded, down to an empty set.
func fetchEvents(ctx context.Context, conf *config.Config, reqID string) []model.Event {
	sources := make([]ics.Source, 0, len(conf.Calendars))
	for _, cal := range conf.Calendars {
		sources = append(sources, ics.Source{ID: cal.ID, URL: cal.URL})
	}

	fetcher := ics.NewFetcher(conf.CacheDir)
	results, errs := fetcher.FetchAll(ctx, sources)
	if len(errs) > 0 {
		appLog.Info("some calendars unavailable", "req", reqID, "failed", len(errs), "loaded", len(results))
	}

	var events []model.Event
	for _, res := range results {
		evs, err := ics.Parse(res.Source, res.Body)
		if err != nil {
			appLog.Error("calendar body unparsable, skipping", err, "req", reqID, "source", res.Source)
			continue
		}
		events = append(events, evs...)
	}
	return events
}

// forecastProvider builds the weather source, or nil when unconfigured.
func forecastProvider(conf *config.Config) weather.Provider {
	if conf.Weather.APIKey == "" || conf.Weather.Location == "" {
		return nil
	}
	client := weather.NewOWMClient(conf.Weather.APIKey, conf.Weather.Location, conf.Weather.Units)
	return weather.NewCache(client, 0)
}

func parseAnchor(s, tz string) (time.Time, error) {
	loc := displayLocation(tz)
	if s == "" {
		return time.Now().In(loc), nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

func displayLocation(tz string) *time.Location {
	if tz == "" || tz == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		appLog.Error("invalid timezone, using local", err, "timezone", tz)
		return time.Local
	}
	return loc
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/rmagenda/config.yaml", "Path to config file")
	flag.StringVar(&cfg.view, "view", "month", "Primary view type: month, week, or day")
	flag.StringVar(&cfg.date, "date", "", "Anchor date (YYYY-MM-DD, default today)")
	flag.StringVar(&cfg.outDir, "out", "", "Output directory (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Generate one document and exit")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()
	return cfg
}
