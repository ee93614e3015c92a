package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/config"
	"StockAdvisor/internal/events"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/monitor"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/recorder"
	"StockAdvisor/internal/scheduler"
	"StockAdvisor/internal/strategy"
	"StockAdvisor/internal/ui"
)

func main() {
	os.Exit(run())
}

// run wires and runs the advisor, returning the process exit code.
func run() int {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 1
	}

	logFile, err := setupLogging(cfg.Log.Level, cfg.Log.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		return 1
	}
	defer logFile.Close()
	log.Info().Msg("StockAdvisor starting...")

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRestFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = collector.NewMockFetcher()
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	// Init notifier
	var notice notifier.Notifier = notifier.NewLogNotifier()
	if cfg.TelegramEnabled() {
		notice = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Info().Msg("telegram notices enabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	mon, err := monitor.New(collector.NewCollector(fetcher), strategy.NewEngine(cfg.Recommendation.Seed), notice, rec, monitor.Settings{
		Symbol: cfg.DataSource.Symbol,
		Chart: model.ChartOptions{
			Period:  model.ChartPeriod(cfg.Chart.Period),
			ShowMA:  cfg.Chart.ShowMA,
			ShowRSI: cfg.Chart.ShowRSI,
		},
		MAWindow:  cfg.Chart.MAWindow,
		RSIWindow: cfg.Chart.RSIWindow,
	})
	if err != nil {
		log.Error().Err(err).Msg("init monitor")
		return 1
	}

	// Init scheduler
	queue := events.NewQueue()
	sched := scheduler.NewScheduler(queue, scheduler.MarketHours{
		Open:  cfg.Schedule.MarketOpenHour,
		Close: cfg.Schedule.MarketCloseHour,
	})
	if err := sched.Register(cfg.Schedule.TickCron); err != nil {
		log.Error().Err(err).Msg("register tick")
		return 1
	}
	sched.Start()

	p := tea.NewProgram(ui.New(mon, queue, ui.Config{
		Symbols:      cfg.DataSource.Symbols,
		ThinkDelay:   cfg.Chat.ThinkDelay,
		FetchTimeout: cfg.Timeout,
	}), tea.WithAltScreen())

	_, runErr := p.Run()

	log.Info().Msg("shutdown requested, stopping...")
	sched.Stop()
	if runErr != nil {
		log.Error().Err(runErr).Msg("ui exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		return 1
	}
	log.Info().Msg("StockAdvisor stopped")
	return 0
}

// setupLogging points the global logger at a file; the terminal belongs to the UI.
func setupLogging(level, output string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)

	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: time.DateTime,
		NoColor:    true,
	}).With().Timestamp().Logger()
	return file, nil
}
