package connectors

import (
	"context"
	"fmt"

	"invoiceparts/internal/logger"
)

var log = logger.GetLoggerWithPrefix("[MAIL]")

type FetchService struct {
	connector MailConnector
	store     *MailStoreService
}

type FetchResult struct {
	Fetched int
	Stored  int
	// Paths lists the .eml file of every fetched message, new or not.
	Paths []string
}

func NewFetchService(rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		connector: connector,
		store:     NewMailStoreService(rawMailDir),
	}
}

func (s *FetchService) FetchAndStore(ctx context.Context, label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(ctx, label, max)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch %s: %w", label, err)
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		path, created, err := s.store.Store(msg)
		if err != nil {
			return result, fmt.Errorf("store message %s: %w", msg.MessageID, err)
		}
		if created {
			result.Stored++
			log.Debugf("stored %s from %s as %s", msg.MessageID, msg.Provider, path)
		}
		result.Paths = append(result.Paths, path)
	}

	return result, nil
}
