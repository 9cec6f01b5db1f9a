// Command receipt-parse interprets OCR output saved as text, one fragment per line,
// and prints the resulting receipt as JSON.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/cahyo/cashflow/internal/interpret"
)

func main() {
	fs := ff.NewFlagSet("receipt-parse")
	var (
		input   = fs.StringLong("input", "-", "OCR text file, '-' for stdin")
		date    = fs.StringLong("date", "", "Receipt date (YYYY-MM-DD), defaults to today")
		explain = fs.BoolLong("explain", "Report why each skipped line was skipped")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("CASHFLOW")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	today := time.Now()
	if *date != "" {
		d, err := time.Parse(interpret.DateLayout, *date)
		if err != nil {
			slog.Error("Invalid date", "date", *date, "error", err)
			os.Exit(1)
		}
		today = d
	}

	var r io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			slog.Error("Failed to open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		slog.Error("Failed to read input", "error", err)
		os.Exit(1)
	}

	if *explain {
		for i, res := range interpret.Inspect(lines) {
			if res.Err != nil {
				slog.Info("Skipped line", "index", i, "line", res.Line, "reason", res.Err)
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(interpret.Parse(lines, today)); err != nil {
		slog.Error("Failed to write receipt", "error", err)
		os.Exit(1)
	}
}
