package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"nz_propper/config"
	"nz_propper/ingest"
	"nz_propper/models"
	"nz_propper/services"
	"nz_propper/storage"
)

// Scheduler watches a directory for CSV exports and runs the bulk analysis
// on a cron expression or fixed interval. Processed files move to a
// processed/ subdirectory so a file is only analyzed once.
type Scheduler struct {
	cfg      *config.Config
	analyzer *services.Analyzer
	uploader *storage.ReportUploader
	cron     *cron.Cron
	ticker   *time.Ticker
	stopCh   chan struct{}
}

func New(cfg *config.Config, analyzer *services.Analyzer) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		analyzer: analyzer,
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
	}
}

// SetUploader enables report publication to S3-compatible storage.
func (s *Scheduler) SetUploader(uploader *storage.ReportUploader) {
	s.uploader = uploader
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.AnalyzeCron != "" {
		log.Printf("[scheduler] watching %s with cron: %s", s.cfg.WatchDir, s.cfg.AnalyzeCron)
		_, err := s.cron.AddFunc(s.cfg.AnalyzeCron, func() {
			if err := s.ScanOnce(ctx); err != nil {
				log.Printf("[scheduler] scheduled scan error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.AnalyzeInterval > 0 {
		log.Printf("[scheduler] watching %s every %s", s.cfg.WatchDir, s.cfg.AnalyzeInterval)
		s.ticker = time.NewTicker(s.cfg.AnalyzeInterval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.ScanOnce(ctx); err != nil {
						log.Printf("[scheduler] scheduled scan error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("[scheduler] no schedule configured, watch mode is off")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// ScanOnce analyzes every pending CSV export in the watch directory.
func (s *Scheduler) ScanOnce(ctx context.Context) error {
	if s.cfg.WatchDir == "" {
		return nil
	}

	entries, err := os.ReadDir(s.cfg.WatchDir)
	if err != nil {
		return fmt.Errorf("read watch dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		if err := s.processFile(ctx, filepath.Join(s.cfg.WatchDir, entry.Name())); err != nil {
			log.Printf("[scheduler] %s: %v", entry.Name(), err)
		}
	}
	return nil
}

func (s *Scheduler) processFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	rows, err := ingest.ReadCSV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	report, err := s.analyzer.AnalyzeRows(ctx, rows, filepath.Base(path))
	if err != nil {
		return err
	}

	if err := s.writeReport(ctx, filepath.Base(path), report); err != nil {
		return err
	}
	return s.markProcessed(path)
}

func (s *Scheduler) writeReport(ctx context.Context, source string, report *models.Report) error {
	key := fmt.Sprintf("reports/%s-%s.json",
		time.Now().Format("2006-01-02"), uuid.New().String()[:8])

	if s.cfg.ReportDir != "" {
		path := filepath.Join(s.cfg.ReportDir, filepath.Base(key))
		if err := os.MkdirAll(s.cfg.ReportDir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
		data, err := reportJSON(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Printf("[scheduler] %s: report written to %s", source, path)
	}

	if s.uploader != nil {
		url, err := s.uploader.UploadReport(ctx, key, report)
		if err != nil {
			return fmt.Errorf("upload report: %w", err)
		}
		log.Printf("[scheduler] %s: report uploaded to %s", source, url)
	}
	return nil
}

func reportJSON(report *models.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// markProcessed moves an analyzed export into processed/ next to it.
func (s *Scheduler) markProcessed(path string) error {
	processedDir := filepath.Join(filepath.Dir(path), "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("create processed dir: %w", err)
	}
	dest := filepath.Join(processedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move processed export: %w", err)
	}
	return nil
}
