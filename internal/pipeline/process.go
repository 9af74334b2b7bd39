package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/google/uuid"

	"invoiceparts/internal"
	"invoiceparts/internal/logger"
	"invoiceparts/internal/records"
	"invoiceparts/internal/source"
	"invoiceparts/internal/storage"
)

var log = logger.GetLoggerWithPrefix("[PIPELINE]")

// ProcessingService turns documents into records. Documents are handled one
// at a time and in order; records land in the store in the same order.
type ProcessingService struct {
	store *records.Store
	db    *storage.DB
}

// NewProcessingService builds a service appending to store. db may be nil,
// in which case nothing is persisted and nothing is deduplicated. store may be
// nil when the ledger is the only consumer.
func NewProcessingService(store *records.Store, db *storage.DB) *ProcessingService {
	return &ProcessingService{store: store, db: db}
}

type DocumentResult struct {
	Path     string
	Hash     string
	Document internal.ExtractedDocument
	Skipped  bool
}

type BatchResult struct {
	TraceID   string
	Documents int
	Records   int
	Skipped   int
	Failures  []error
}

// ProcessPaths runs every path through ProcessPath. A failing document is
// logged and collected in Failures; the rest of the batch still runs.
func (s *ProcessingService) ProcessPaths(paths []string) BatchResult {
	start := time.Now()
	result := BatchResult{TraceID: uuid.NewString()}

	for _, path := range paths {
		res, err := s.ProcessPath(path)
		if err != nil {
			log.Warningf("trace=%s document failed: %v", result.TraceID, err)
			result.Failures = append(result.Failures, err)
			continue
		}
		if res.Skipped {
			log.Debugf("trace=%s skipped already processed %s", result.TraceID, path)
			result.Skipped++
			continue
		}
		result.Documents++
		result.Records += len(res.Document.Items)
	}

	elapsed := time.Since(start)
	log.Infof("trace=%s documents=%d records=%d skipped=%d failed=%d took=%s",
		result.TraceID, result.Documents, result.Records, result.Skipped, len(result.Failures), elapsed)

	if s.db != nil {
		counts := map[string]int{
			"documents": result.Documents,
			"records":   result.Records,
			"skipped":   result.Skipped,
			"failed":    len(result.Failures),
		}
		if err := s.db.InsertRun(result.TraceID, map[string]float64{"totalMs": float64(elapsed.Milliseconds())}, counts); err != nil {
			log.Errorf("trace=%s record run: %v", result.TraceID, err)
		}
	}
	return result
}

// ProcessPath reads one document, extracts its records and appends them to
// the store. Read failures come back as *internal.SourceReadError.
func (s *ProcessingService) ProcessPath(path string) (DocumentResult, error) {
	res := DocumentResult{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return res, &internal.SourceReadError{Path: path, Cause: err}
	}
	res.Hash = contentHash(content)

	if s.db != nil {
		existing, err := s.db.GetDocumentByHash(res.Hash)
		if err != nil {
			return res, err
		}
		if existing != nil && existing.Status == internal.DocumentProcessed {
			res.Skipped = true
			return res, nil
		}
	}

	text, readErr := source.ReadBytes(path, content)
	if readErr != nil {
		if s.db != nil {
			if _, err := s.db.SaveDocument(path, res.Hash, internal.ExtractedDocument{}, readErr); err != nil {
				log.Errorf("save failed document %s: %v", path, err)
			}
		}
		return res, readErr
	}

	res.Document = ExtractInfo(text)
	if s.db != nil {
		if _, err := s.db.SaveDocument(path, res.Hash, res.Document, nil); err != nil {
			return res, err
		}
	}

	if s.store != nil {
		s.store.AppendDocument(res.Document.Date, res.Document.Items)
	}
	log.Debugf("%s date=%s items=%d", path, res.Document.Date, len(res.Document.Items))
	return res, nil
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
