package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"invoiceparts/internal/config"
	"invoiceparts/internal/connectors"
	gmailconnector "invoiceparts/internal/connectors/gmail"
	imapconnector "invoiceparts/internal/connectors/imap"
	"invoiceparts/internal/logger"
	"invoiceparts/internal/pipeline"
	"invoiceparts/internal/records"
	"invoiceparts/internal/storage"
)

var log = logger.GetLoggerWithPrefix("[LISTENER]")

// ExportMetadataKey holds the path of the last automatic export.
const ExportMetadataKey = "listener.lastExport"

type Service struct {
	db        *storage.DB
	cfg       config.Config
	connector connectors.MailConnector
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// WithConnector overrides the provider connector built from the config.
func (s *Service) WithConnector(c connectors.MailConnector) *Service {
	s.connector = c
	return s
}

type CycleResult struct {
	Fetched   int
	Stored    int
	Documents int
	Records   int
	Failed    int
	Exported  string
}

// Run polls the mailbox until ctx is done. A failing cycle is logged and the
// next one runs after the usual interval.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			log.Errorf("cycle error: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle fetches new mail, ingests every stored message and refreshes the
// export when auto export is on.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(ctx, provider)
	if err != nil {
		return CycleResult{}, err
	}

	fetchService := connectors.NewFetchService(s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(ctx, s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return CycleResult{}, err
	}

	result := CycleResult{Fetched: fetchResult.Fetched, Stored: fetchResult.Stored}
	if len(fetchResult.Paths) > 0 {
		batch := pipeline.NewProcessingService(records.NewStore(), s.db).ProcessPaths(fetchResult.Paths)
		result.Documents = batch.Documents
		result.Records = batch.Records
		result.Failed = len(batch.Failures)
	}

	if s.cfg.MailListenerAutoExport && result.Documents > 0 {
		path, err := s.exportLedger()
		if err != nil {
			return result, err
		}
		result.Exported = path
	}

	log.Infof("cycle done provider=%s fetched=%d stored=%d documents=%d records=%d failed=%d",
		provider, result.Fetched, result.Stored, result.Documents, result.Records, result.Failed)
	return result, nil
}

// exportLedger rewrites OUTPUT_DIR/records.csv from every stored record,
// grouped by year.
func (s *Service) exportLedger() (string, error) {
	stored, err := s.db.ListRecords()
	if err != nil {
		return "", err
	}

	store := records.NewStore(stored...)
	sorted := records.Flatten(store.YearGroupedView(records.SortDate, true))
	outputPath := filepath.Join(s.cfg.OutputDir, "records.csv")
	if err := pipeline.ExportRecordsToCSV(sorted, outputPath); err != nil {
		return "", err
	}
	if err := s.db.SetMetadata(ExportMetadataKey, outputPath); err != nil {
		log.Warningf("remember export path: %v", err)
	}
	return outputPath, nil
}

func (s *Service) makeConnector(ctx context.Context, provider string) (connectors.MailConnector, error) {
	if s.connector != nil {
		return s.connector, nil
	}
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(ctx, s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
