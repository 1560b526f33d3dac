package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nz_propper/config"
	"nz_propper/ingest"
	"nz_propper/logging"
	"nz_propper/pricing"
	"nz_propper/scheduler"
	"nz_propper/scraper"
	"nz_propper/server"
	"nz_propper/services"
	"nz_propper/storage"
)

var (
	filePath  = flag.String("file", "", "Analyze a CSV export once and exit")
	pageURL   = flag.String("url", "", "Analyze a single listing URL once and exit")
	serveOnly = flag.Bool("serve", false, "Run the HTTP API without the watch scheduler")
)

func main() {
	flag.Parse()

	logFile, err := logging.Setup("propper.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting nz_propper...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rates, err := pricing.LoadRates(cfg.RatesPath())
	if err != nil {
		log.Printf("Rates file %s not usable (%v), using built-in defaults", cfg.RatesPath(), err)
	}
	log.Printf("Rate regime: %s (sale price $%.0f, good-deal threshold %.0f%%)",
		cfg.RatesMode, rates.SalePrice, rates.GoodDealThresholdPct*100)

	fetcher := scraper.NewPlaywrightFetcher(cfg.NavTimeout)
	analyzer := services.NewAnalyzer(rates, fetcher)
	analyzer.SetWorkers(cfg.Workers)
	if cfg.RentEstimates {
		analyzer.SetEstimator(scraper.NewPlaywrightEstimator(cfg.NavTimeout))
		log.Println("Rent estimates enabled")
	}

	ctx := context.Background()

	// One-shot modes skip the run store and scheduler entirely.
	if *filePath != "" {
		analyzeFileOnce(ctx, analyzer, *filePath)
		return
	}
	if *pageURL != "" {
		analyzeURLOnce(ctx, analyzer, *pageURL)
		return
	}

	runs, err := storage.NewRunStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer runs.Close()
	analyzer.SetRunStore(runs)
	log.Printf("Run history database: %s", cfg.DBPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.New(cfg.Port, analyzer)
	srv.SetRunStore(runs)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	var sched *scheduler.Scheduler
	if !*serveOnly {
		sched = scheduler.New(cfg, analyzer)
		if cfg.S3.Bucket != "" {
			uploader, err := storage.NewReportUploader(ctx, storage.S3Config{
				Bucket:          cfg.S3.Bucket,
				Region:          cfg.S3.Region,
				Endpoint:        cfg.S3.Endpoint,
				AccessKeyID:     cfg.S3.AccessKeyID,
				SecretAccessKey: cfg.S3.SecretAccessKey,
			})
			if err != nil {
				log.Fatalf("Failed to set up report uploader: %v", err)
			}
			sched.SetUploader(uploader)
			log.Printf("Report uploads enabled: bucket %s", cfg.S3.Bucket)
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	if sched != nil {
		sched.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	log.Println("Goodbye!")
}

func analyzeFileOnce(ctx context.Context, analyzer *services.Analyzer, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := ingest.ReadCSV(f)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	report, err := analyzer.AnalyzeRows(ctx, rows, path)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	printJSON(report)
}

func analyzeURLOnce(ctx context.Context, analyzer *services.Analyzer, pageURL string) {
	result, err := analyzer.AnalyzeURL(ctx, pageURL)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	printJSON(result)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}
