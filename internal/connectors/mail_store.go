package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"invoiceparts/internal"
)

// MailStoreService keeps raw messages on disk as <sha256>.eml so the document
// reader can treat them like any other input file.
type MailStoreService struct {
	rawMailDir string
}

func NewMailStoreService(rawMailDir string) *MailStoreService {
	return &MailStoreService{rawMailDir: rawMailDir}
}

// Store writes msg unless a file with the same content already exists. It
// returns the file path and whether the file was newly written.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (string, bool, error) {
	hashBytes := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return "", false, err
	}

	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	_, err := os.Stat(rawPath)
	if err == nil {
		return rawPath, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", false, err
	}

	tmp := rawPath + ".tmp"
	if err := os.WriteFile(tmp, msg.Raw, 0o644); err != nil {
		return "", false, err
	}
	if err := os.Rename(tmp, rawPath); err != nil {
		_ = os.Remove(tmp)
		return "", false, err
	}
	return rawPath, true, nil
}
