package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"google.golang.org/api/option"

	"github.com/cahyo/cashflow/internal/expense"
	"github.com/cahyo/cashflow/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("cashflow")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		ledgerType     = fs.StringLong("ledger", "bolt", "Ledger backend: 'bolt', 'csv' or 'sheets'")
		dbPath         = fs.StringLong("db", "cashflow.db", "BoltDB ledger file path")
		csvPath        = fs.StringLong("csv", "cashflow.csv", "CSV ledger file path")
		sheetsID       = fs.StringLong("sheets-id", "", "Google Sheets spreadsheet ID")
		sheetsRange    = fs.StringLong("sheets-range", "Sheet1", "Sheet name holding the ledger")
		sheetsCreds    = fs.StringLong("sheets-credentials", "", "Service account JSON key file for Google Sheets")
		storagePath    = fs.StringLong("storage", "./receipts", "Receipt photo directory path")
		scannerType    = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini', 'ollama' or 'tesseract'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl)")
		tesseractBin   = fs.StringLong("tesseract-bin", "tesseract", "tesseract binary")
		tesseractLangs = fs.StringLong("tesseract-langs", "ind+eng", "tesseract languages")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		debug          = fs.BoolLong("debug", "Log skipped receipt lines and other debug output")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CASHFLOW"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx := context.Background()

	slog.Info("Initializing ledger...", "backend", *ledgerType)
	var ledger expense.Ledger
	var err error
	switch *ledgerType {
	case "bolt":
		ledger, err = expense.NewBoltLedger(*dbPath)
	case "csv":
		ledger, err = expense.NewCSVLedger(*csvPath)
	case "sheets":
		var opts []option.ClientOption
		if *sheetsCreds != "" {
			opts = append(opts, option.WithCredentialsFile(*sheetsCreds))
		}
		ledger, err = expense.NewSheetsLedger(ctx, *sheetsID, *sheetsRange, opts...)
	default:
		err = fmt.Errorf("invalid ledger type %q, valid: bolt, csv or sheets", *ledgerType)
	}
	if err != nil {
		slog.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	// OCR backends are loaded on the first scan and shared for the life of the process
	scanner := scanning.NewLazy(func(ctx context.Context) (scanning.Scanner, error) {
		switch *scannerType {
		case "gemini":
			apiKey := *geminiKey
			if apiKey == "" {
				apiKey = os.Getenv("GEMINI_API_KEY")
			}
			slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
			return scanning.NewGemini(context.WithoutCancel(ctx), apiKey, *geminiModel)
		case "ollama":
			slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
			return scanning.NewOllama(*ollamaURL, *ollamaModel)
		case "tesseract":
			slog.Info("Initializing tesseract scanner...", "bin", *tesseractBin, "langs", *tesseractLangs)
			return scanning.NewTesseract(*tesseractBin, *tesseractLangs)
		default:
			return nil, fmt.Errorf("invalid scanner type %q, valid: gemini, ollama or tesseract", *scannerType)
		}
	})
	defer scanner.Close()

	slog.Info("Initializing storage...")
	store, err := expense.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := expense.NewService(ledger, scanner, store)
	server := expense.NewServer(service, expense.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	addr := fmt.Sprintf(":%d", *port)
	errc := make(chan error, 1)
	go func() {
		errc <- server.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Info("Shutting down...")
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			scanner.Close()
			ledger.Close()
			os.Exit(1)
		}
	}
}
