package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"BandWatcher/internal/calculator"
	"BandWatcher/internal/collector"
	"BandWatcher/internal/config"
	"BandWatcher/internal/notifier"
	"BandWatcher/internal/pipeline"
	"BandWatcher/internal/report"
	"BandWatcher/internal/scheduler"
	"BandWatcher/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	_ = godotenv.Load() // optional .env, ignored when absent

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	var (
		flagConfig     = flag.String("config", cfgPath, "path to YAML config")
		flagMode       = flag.String("mode", "both", "mode of operation: collect, calculate, both, daemon")
		flagSymbols    = flag.String("symbols", "", "comma-separated symbols override (e.g. BTC/USDT,ETH/USDT)")
		flagTimeframes = flag.String("timeframes", "", "comma-separated timeframes override (e.g. 4h,1d)")
		flagStart      = flag.String("start", "", "collection start date override (YYYY-MM-DD)")
	)
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *flagSymbols != "" {
		cfg.DataSource.Symbols = splitList(*flagSymbols)
	}
	if *flagTimeframes != "" {
		cfg.DataSource.Timeframes = splitList(*flagTimeframes)
	}
	if *flagStart != "" {
		cfg.DataSource.StartDate = *flagStart
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	start, _ := cfg.StartTime()

	log.Printf("[INFO] BandWatcher starting: mode=%s symbols=%v timeframes=%v",
		*flagMode, cfg.DataSource.Symbols, cfg.DataSource.Timeframes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores
	raw, err := store.NewRawStore(cfg.Database.RawSQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open raw store: %v", err)
	}
	defer raw.Close()

	var sink store.Sink
	if cfg.Database.IndicatorSQLitePath != "" {
		ss, err := store.NewSQLiteSink(cfg.Database.IndicatorSQLitePath)
		if err != nil {
			log.Printf("[WARN] open indicator sink failed, using noop: %v", err)
			sink = store.NewNoopSink()
		} else {
			sink = ss
			defer ss.Close()
		}
	} else {
		sink = store.NewNoopSink()
	}

	// Collector and pipeline
	fetcher := collector.NewBinanceFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	col := collector.NewCollector(fetcher, raw)
	params := calculator.Params{Window: cfg.Bands.Window, StdDevMult: cfg.Bands.StdDevMult}
	pipe := pipeline.New(raw, sink, params, cfg.Bands.SqueezeWindow)

	// Notifier
	var nt notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		nt = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		nt = notifier.NewLogNotifier()
	}
	log.Printf("[INFO] data source: %s, notifier: %s", fetcher.Name(), nt.Name())

	switch *flagMode {
	case "collect":
		runCollect(ctx, col, cfg.DataSource.Symbols, cfg.DataSource.Timeframes, start)
	case "calculate":
		runCalculate(ctx, pipe, cfg.DataSource.Symbols, cfg.DataSource.Timeframes)
	case "both":
		runCollect(ctx, col, cfg.DataSource.Symbols, cfg.DataSource.Timeframes, start)
		runCalculate(ctx, pipe, cfg.DataSource.Symbols, cfg.DataSource.Timeframes)
	case "daemon":
		sched := scheduler.NewScheduler(ctx, col, pipe, nt,
			cfg.DataSource.Symbols, cfg.DataSource.Timeframes, start)
		if err := sched.RegisterAll(cfg.Schedule.CollectCron, cfg.Schedule.CalculateCron); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, executing collect+calculate now")
			go sched.RunNow()
		}

		log.Println("[INFO] BandWatcher is running. Press Ctrl+C to stop.")
		<-ctx.Done()
	default:
		log.Fatalf("[FATAL] unknown mode %q", *flagMode)
	}

	log.Println("[INFO] BandWatcher stopped")
}

func runCollect(ctx context.Context, col *collector.Collector, symbols, timeframes []string, start time.Time) {
	log.Println("[INFO] === COLLECTING RAW DATA ===")
	for _, symbol := range symbols {
		for _, timeframe := range timeframes {
			if ctx.Err() != nil {
				return
			}
			if _, err := col.Collect(ctx, symbol, timeframe, start); err != nil {
				log.Printf("[ERROR] collect %s (%s): %v", symbol, timeframe, err)
			}
		}
	}
}

func runCalculate(ctx context.Context, pipe *pipeline.Pipeline, symbols, timeframes []string) {
	log.Println("[INFO] === CALCULATING BOLLINGER BANDS ===")
	run, results := pipe.RunBatch(ctx, "batch", symbols, timeframes)
	for _, res := range results {
		if res.Status != pipeline.StatusProcessed {
			continue
		}
		fmt.Println(report.FormatPairAnalysis(res.Symbol, res.Timeframe, res.Snapshot))
	}
	fmt.Print(report.FormatRunSummary(run, results))
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
