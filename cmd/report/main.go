// Command report builds an activity report from a CSV file without the web
// dashboard.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/app/usecase"
	"github.com/fardannozami/activity-dashboard/internal/config"
	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/infra/history"
	"github.com/fardannozami/activity-dashboard/internal/render"
)

func main() {
	input := flag.String("input", "", "CSV file to analyse, - for stdin")
	topN := flag.Int("top-n", domain.DefaultTopN, fmt.Sprintf("top users per country (%d-%d)", domain.MinTopN, domain.MaxTopN))
	asJSON := flag.Bool("json", false, "print the report as JSON instead of text")
	htmlOut := flag.String("html", "", "also write an HTML report to this path")
	template := flag.Bool("template", false, "print a sample CSV and exit")
	save := flag.Bool("save", false, "store the report in the configured history")
	flag.Parse()

	if *template {
		fmt.Print(render.TemplateCSV())
		return
	}
	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := walog.Stdout("Report", "WARN", true)

	var repo domain.ReportRepository
	if *save {
		cfg := config.Load()
		r, closeRepo, err := history.Open(context.Background(), cfg, logger)
		if err != nil {
			log.Fatalf("Failed to open report history: %v", err)
		}
		defer closeRepo()
		repo = r
	}

	in, source, err := openInput(*input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer in.Close()

	uc := usecase.NewGenerateReportUsecase(repo, nil, logger)
	report, err := uc.Execute(context.Background(), in, domain.ReportOptions{TopN: *topN, Source: source})
	if err != nil {
		fmt.Fprintln(os.Stderr, render.ErrorText(err))
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
	} else {
		fmt.Print(render.Text(report))
	}

	if *htmlOut != "" {
		if err := writeHTML(*htmlOut, report); err != nil {
			log.Fatalf("Failed to write HTML report: %v", err)
		}
	}
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, filepath.Base(path), nil
}

func writeHTML(path string, report *domain.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.HTML(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
