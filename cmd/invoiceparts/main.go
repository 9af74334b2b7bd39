package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"invoiceparts/internal"
	"invoiceparts/internal/config"
	"invoiceparts/internal/connectors"
	gmailconnector "invoiceparts/internal/connectors/gmail"
	imapconnector "invoiceparts/internal/connectors/imap"
	"invoiceparts/internal/listener"
	"invoiceparts/internal/logger"
	"invoiceparts/internal/pipeline"
	"invoiceparts/internal/records"
	"invoiceparts/internal/source"
	"invoiceparts/internal/storage"
	"invoiceparts/internal/watch"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(logger.InitGlobalLogger(cfg.LogLevel))

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "comma separated documents or directories")
		output := fs.String("output", "", "output .csv or .xlsx path (table on stdout when empty)")
		view := viewFlags(fs)
		_ = fs.Parse(args)
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		paths, err := source.Discover(splitList(*input))
		must(err)
		store := records.NewStore()
		res := pipeline.NewProcessingService(store, nil).ProcessPaths(paths)
		printBatch(summaryOut(*output), res)

		if strings.TrimSpace(*output) == "" {
			must(view.render(store))
			return
		}
		recs, groups := view.project(store)
		must(pipeline.ExportRecords(recs, groups, *output))
		fmt.Printf("run done records=%d output=%s\n", len(recs), *output)
	case "ingest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "comma separated documents or directories")
		_ = fs.Parse(args)
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		db := openDB(cfg)
		defer db.Close()
		paths, err := source.Discover(splitList(*input))
		must(err)
		printBatch(os.Stdout, pipeline.NewProcessingService(nil, db).ProcessPaths(paths))
	case "show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		view := viewFlags(fs)
		_ = fs.Parse(args)

		db := openDB(cfg)
		defer db.Close()
		store := ledgerStore(db)
		view.grouped = true
		must(view.render(store))
	case "export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output .csv or .xlsx path")
		view := viewFlags(fs)
		_ = fs.Parse(args)
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		db := openDB(cfg)
		defer db.Close()
		recs, groups := view.project(ledgerStore(db))
		must(pipeline.ExportRecords(recs, groups, *out))
		fmt.Printf("exported %d records to %s\n", len(recs), *out)
	case "resort":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		in := fs.String("in", "", "previously exported .csv or .xlsx")
		out := fs.String("out", "", "output .csv or .xlsx path")
		view := viewFlags(fs)
		_ = fs.Parse(args)
		if strings.TrimSpace(*in) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--in and --out are required"))
		}

		recs, err := pipeline.ReadRecordsFile(*in)
		must(err)
		store := records.NewStore(recs...)
		store.Resort(view.specs()...)
		sorted := store.Records()
		var groups []records.YearGroup
		if view.grouped {
			sorted, groups = view.project(store)
		}
		must(pipeline.ExportRecords(sorted, groups, *out))
		fmt.Printf("resorted %d records by %s into %s\n", len(sorted), view.sortKeys, *out)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.MailListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(args)

		db := openDB(cfg)
		defer db.Close()
		conn, err := makeConnector(ctx, cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(ctx, *label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
		if len(result.Paths) > 0 {
			printBatch(os.Stdout, pipeline.NewProcessingService(nil, db).ProcessPaths(result.Paths))
		}
	case "mail:listen":
		db := openDB(cfg)
		defer db.Close()
		must(listener.NewService(db, cfg).Run(ctx))
	case "watch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", cfg.WatchDir, "directory to watch")
		_ = fs.Parse(args)

		db := openDB(cfg)
		defer db.Close()
		must(os.MkdirAll(*dir, 0o755))
		events, _, err := watch.StartWatcher(ctx, watch.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			Debounce:    time.Duration(cfg.WatchDebounceMs) * time.Millisecond,
		})
		must(err)
		fmt.Printf("watching %s\n", *dir)
		svc := pipeline.NewProcessingService(nil, db)
		for path := range events {
			printBatch(os.Stdout, svc.ProcessPaths([]string{path}))
		}
	case "documents":
		db := openDB(cfg)
		defer db.Close()
		docs, err := db.ListDocuments()
		must(err)
		renderDocuments(os.Stdout, docs)
	default:
		usage()
		os.Exit(1)
	}
}

// viewOptions carries the sort and grouping flags shared by the output commands.
type viewOptions struct {
	sortKeys string
	desc     bool
	grouped  bool
}

func viewFlags(fs *flag.FlagSet) *viewOptions {
	v := &viewOptions{}
	fs.StringVar(&v.sortKeys, "sort", "date", "comma separated keys: date|year|part|description")
	fs.BoolVar(&v.desc, "desc", false, "sort descending")
	fs.BoolVar(&v.grouped, "grouped", false, "group by year (xlsx: one sheet per year)")
	return v
}

func (v *viewOptions) specs() []records.SortSpec {
	specs, err := records.ParseSortSpecs(v.sortKeys, !v.desc)
	must(err)
	return specs
}

// project returns the records in output order, plus the year groups when
// grouping was requested.
func (v *viewOptions) project(store *records.Store) ([]internal.Record, []records.YearGroup) {
	specs := v.specs()
	if v.grouped {
		groups := store.YearGroupedViewBy(specs...)
		return records.Flatten(groups), groups
	}
	return store.SortedViewBy(specs...), nil
}

func (v *viewOptions) render(store *records.Store) error {
	recs, groups := v.project(store)
	if groups != nil {
		renderGroups(os.Stdout, groups)
		return nil
	}
	return pipeline.WriteCSV(os.Stdout, recs)
}

func ledgerStore(db *storage.DB) *records.Store {
	stored, err := db.ListRecords()
	must(err)
	return records.NewStore(stored...)
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

// summaryOut keeps stdout clean when it carries the records themselves.
func summaryOut(output string) io.Writer {
	if strings.TrimSpace(output) == "" {
		return os.Stderr
	}
	return os.Stdout
}

func printBatch(w io.Writer, res pipeline.BatchResult) {
	for _, err := range res.Failures {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	fmt.Fprintf(w, "processed documents=%d records=%d skipped=%d failed=%d trace=%s\n",
		res.Documents, res.Records, res.Skipped, len(res.Failures), res.TraceID)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func makeConnector(ctx context.Context, cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(ctx, cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: invoiceparts <command>")
	fmt.Println("commands:")
	fmt.Println("  run --input=a.pdf,dir [--output=out.csv|out.xlsx] [--sort=date] [--desc] [--grouped]")
	fmt.Println("  ingest --input=a.pdf,dir")
	fmt.Println("  show [--sort=date] [--desc]")
	fmt.Println("  export --out=./out/records.csv|.xlsx [--sort=date] [--desc] [--grouped]")
	fmt.Println("  resort --in=prev.csv|.xlsx --out=... --sort=year,part [--desc] [--grouped]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:listen")
	fmt.Println("  watch [--dir=./in]")
	fmt.Println("  documents")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
