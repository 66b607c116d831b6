// Command contracteval analyzes, saves and inspects contract records
// against the configured store:
//
//	go run ./cmd/contracteval analyze -file contract.pdf -user alice -save
//	go run ./cmd/contracteval list -user alice
//	go run ./cmd/contracteval admin
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"contract-backend/internal/admin"
	"contract-backend/internal/analysis"
	"contract-backend/internal/bootstrap"
	"contract-backend/internal/extract"
	"contract-backend/internal/records"
	"contract-backend/internal/shared/config"
	"contract-backend/internal/shared/telemetry"
)

var errUsage = errors.New("usage")

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.Env)
	defer telemetry.Sync()

	err := run(context.Background(), cfg, os.Args[1:], os.Stdout, extract.New())
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, args []string, out io.Writer, extractor extract.Extractor) error {
	globalFlags := flag.NewFlagSet("global", flag.ContinueOnError)
	store := globalFlags.String("store", cfg.RecordStore, "Record store: local, s3, postgres, sqlite or memory")
	recordsDir := globalFlags.String("records-dir", cfg.RecordsDir, "Directory for the local record store")
	globalFlags.SetOutput(io.Discard)
	if err := globalFlags.Parse(args); err != nil {
		return errUsage
	}
	rest := globalFlags.Args()
	if len(rest) == 0 {
		return errUsage
	}
	cfg.RecordStore = *store
	cfg.RecordsDir = *recordsDir

	repo, sqlDB, err := bootstrap.BuildRecords(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "analyze":
		return runAnalyze(ctx, repo, extractor, cmdArgs, out)
	case "list":
		return runList(ctx, repo, cmdArgs, out)
	case "admin":
		return runAdmin(ctx, repo, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func runAnalyze(ctx context.Context, repo records.Repo, extractor extract.Extractor, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("file", "", "Path to the contract (pdf, docx or txt)")
	user := fs.String("user", "", "Owner to save the record under")
	save := fs.Bool("save", false, "Save the analysis as a record")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if strings.TrimSpace(*path) == "" {
		return fmt.Errorf("%w: -file is required", errUsage)
	}
	if *save && strings.TrimSpace(*user) == "" {
		return fmt.Errorf("%w: -save needs -user", errUsage)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}
	text, err := extractor.Extract(ctx, data, "", filepath.Base(*path))
	if err != nil {
		return err
	}
	res := analysis.Analyze(text)

	payload := struct {
		analysis.Result
		Message  string `json:"message"`
		RecordID string `json:"id,omitempty"`
	}{Result: res, Message: analysis.Evaluate(res).Message}
	if *save {
		id, err := repo.Save(ctx, *user, res)
		if err != nil {
			return err
		}
		payload.RecordID = id
	}
	return writeJSON(out, payload)
}

func runList(ctx context.Context, repo records.Repo, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "Owner whose records to list")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if strings.TrimSpace(*user) == "" {
		return fmt.Errorf("%w: -user is required", errUsage)
	}
	recs, err := repo.LoadAll(ctx, *user)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]any{"owner": *user, "count": len(recs), "records": recs})
}

func runAdmin(ctx context.Context, repo records.Repo, out io.Writer) error {
	summary, err := admin.NewService(repo, nil).Summary(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, summary)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "contracteval - analyze and inspect contract records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  contracteval [-store=<type>] [-records-dir=<dir>] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  analyze -file <path> [-user <name> -save]   Analyze a contract, optionally saving it")
	fmt.Fprintln(w, "  list -user <name>                           List a user's saved records")
	fmt.Fprintln(w, "  admin                                       Summarize records across all users")
}
