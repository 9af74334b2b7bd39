package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"invoiceparts/internal/config"
	"invoiceparts/internal/listener"
	"invoiceparts/internal/logger"
	"invoiceparts/internal/storage"
)

var log = logger.GetLoggerWithPrefix("[MAIL-LISTENER]")

func main() {
	cfg, err := config.Load()
	must(err)

	fs := flag.NewFlagSet("mail-listener", flag.ExitOnError)
	provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
	label := fs.String("label", cfg.MailListenerLabel, "mailbox/label to poll")
	every := fs.Int("every", cfg.MailListenerIntervalSec, "poll interval in seconds")
	once := fs.Bool("once", false, "run a single cycle and exit")
	_ = fs.Parse(os.Args[1:])

	cfg, err = applyOverrides(cfg, *provider, *label, *every)
	must(err)
	must(logger.InitGlobalLogger(cfg.LogLevel))

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := listener.NewService(db, cfg)
	log.Infof("provider=%s label=%s every=%ds db=%s autoExport=%t",
		cfg.MailListenerProvider, cfg.MailListenerLabel, cfg.MailListenerIntervalSec, cfg.DBPath, cfg.MailListenerAutoExport)

	if *once {
		res, err := svc.RunCycle(ctx)
		must(err)
		log.Infof("cycle done fetched=%d stored=%d documents=%d records=%d failed=%d exported=%q",
			res.Fetched, res.Stored, res.Documents, res.Records, res.Failed, res.Exported)
		return
	}

	err = svc.Run(ctx)
	if ctx.Err() != nil {
		log.Info("shutting down")
		return
	}
	must(err)
}

// applyOverrides folds command-line values into the loaded config and rejects
// settings the listener cannot run with.
func applyOverrides(cfg config.Config, provider, label string, everySec int) (config.Config, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case "gmail", "imap":
	default:
		return cfg, fmt.Errorf("unsupported provider %q (want gmail or imap)", provider)
	}
	if strings.TrimSpace(label) == "" {
		return cfg, fmt.Errorf("label must not be empty")
	}
	if everySec <= 0 {
		return cfg, fmt.Errorf("poll interval must be positive, got %d", everySec)
	}

	cfg.MailListenerProvider = provider
	cfg.MailListenerLabel = label
	cfg.MailListenerIntervalSec = everySec
	return cfg, nil
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "mail-listener: %v\n", err)
	os.Exit(1)
}
