// Command quotecalc prices a print job from a JSON file and writes the quote
// as text, PDF or JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/export"
	"github.com/Simplici0/printquote/internal/format"
	"github.com/Simplici0/printquote/internal/jobschema"
	"github.com/Simplici0/printquote/internal/quote"
)

type options struct {
	jobPath  string
	format   string
	out      string
	baseURL  string
	insights bool
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "quotecalc:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("quotecalc", flag.ContinueOnError)
	fs.StringVar(&opts.jobPath, "job", "-", "job JSON file, or - for stdin")
	fs.StringVar(&opts.format, "format", "text", "output format: text, pdf or json")
	fs.StringVar(&opts.out, "out", "", "output file (default stdout)")
	fs.StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "base URL for the share link in PDFs")
	fs.BoolVar(&opts.insights, "insights", true, "include the risk assessment")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.format {
	case "text", "pdf", "json":
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger, now time.Time) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	raw, err := readJob(opts.jobPath, stdin)
	if err != nil {
		return err
	}
	validator, err := jobschema.New()
	if err != nil {
		return err
	}
	job, err := validator.Decode(raw)
	if err != nil {
		return err
	}

	var svcOpts []quote.Option
	if !opts.insights {
		svcOpts = append(svcOpts, quote.WithoutInsights())
	}
	// Pricing never touches the store.
	svc := quote.NewService(quote.NewMemoryStore(), catalog.Builtin(), logger, svcOpts...)
	res := svc.Calculate(job)
	doc := export.NewDocument(now, job, res.Breakdown, res.Insights)

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.format {
	case "pdf":
		return export.WritePDF(w, doc, export.ShareURL(opts.baseURL, doc.QuoteID))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"quoteId":   doc.QuoteID,
			"job":       job,
			"breakdown": res.Breakdown,
			"insights":  res.Insights,
			"total":     format.Currency(res.Breakdown.Total),
		})
	default:
		_, err := io.WriteString(w, export.Text(doc))
		return err
	}
}

func readJob(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read job from stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return b, nil
}
