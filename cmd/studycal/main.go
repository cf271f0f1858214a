package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"studycal/internal/catalog"
	"studycal/internal/config"
	"studycal/internal/ics"
	appLog "studycal/internal/log"
	"studycal/internal/metrics"
	"studycal/internal/model"
	"studycal/internal/recur"
	"studycal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	cacheDir   string
	once       bool
	verbose    bool
}

func main() {
	appLog.Info("studycal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	items, err := catalog.LoadFile(conf.CatalogPath)
	if err != nil {
		appLog.Error("failed to load catalog", err, "catalog_path", conf.CatalogPath)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"history_window_days", conf.HistoryWindowDays,
		"catalog_items", len(items),
		"ics_count", len(conf.ICS),
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	fetcher := ics.NewFetcher(flags.cacheDir)

	if flags.once {
		if err := runOnce(ctx, conf, fetcher); err != nil {
			appLog.Error("single-shot run failed", err)
			os.Exit(1)
		}
		return
	}

	m := metrics.New()
	server := web.NewServer(conf, items, m)

	refresh := func() {
		templates, err := importTemplates(ctx, conf, fetcher)
		if err != nil {
			m.RecordRefresh("error")
			appLog.Error("template refresh failed", err)
			return
		}
		server.SetTemplates(templates)
		m.RecordRefresh("ok")
		appLog.Info("template snapshot refreshed", "template_count", len(templates))
	}

	// Initial import before serving, then cron-driven refreshes.
	refresh()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, refresh); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP server shutdown failed", err)
	}
	appLog.Info("studycal exiting")
}

// importTemplates fetches and parses all configured ICS sources into one
// template list. Individual source failures are logged and skipped; the
// import only fails as a whole when every source failed.
func importTemplates(ctx context.Context, conf *config.Config, fetcher *ics.Fetcher) ([]model.EventTemplate, error) {
	sources := make([]ics.Source, 0, len(conf.ICS))
	for _, csrc := range conf.ICS {
		if csrc.URL == "" {
			continue
		}
		id := csrc.ID
		if id == "" {
			if csrc.Name != "" {
				id = csrc.Name
			} else {
				id = csrc.URL
			}
		}
		sources = append(sources, ics.Source{ID: id, URL: csrc.URL})
	}

	if len(sources) == 0 {
		return []model.EventTemplate{}, nil
	}

	results, errs := fetcher.FetchAll(ctx, sources)
	if len(results) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	templates := make([]model.EventTemplate, 0)
	for _, res := range results {
		parsed, err := ics.ParseTemplates(res.Source, res.Body)
		if err != nil {
			appLog.Error("template parse failed for source", err, "id", res.Source.ID)
			continue
		}
		templates = append(templates, parsed...)
	}
	return templates, nil
}

// runOnce performs a single import+expand cycle and prints this week's
// occurrences as JSON to stdout.
func runOnce(ctx context.Context, conf *config.Config, fetcher *ics.Fetcher) error {
	templates, err := importTemplates(ctx, conf, fetcher)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		loc = time.Local
	}

	occurrences := recur.Expand(templates, time.Now().In(loc))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(occurrences)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/studycal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.cacheDir, "cache-dir", "/var/lib/studycal/ics-cache", "Directory for the ICS fetch cache")
	flag.BoolVar(&cfg.once, "once", false, "Run one import+expand cycle, print occurrences and exit")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
