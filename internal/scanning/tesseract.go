package scanning

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner runs an external command. Tests stub it out.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", time.Since(start).Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

// Tesseract implements the Scanner interface with the tesseract CLI
type Tesseract struct {
	binary    string
	languages string
	runner    Runner
}

// NewTesseract checks that the tesseract binary is available.
// languages uses tesseract's syntax, e.g. "ind+eng".
func NewTesseract(binary, languages string) (*Tesseract, error) {
	if binary == "" {
		binary = "tesseract"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("finding tesseract binary: %w", err)
	}
	return NewTesseractWithRunner(path, languages, execRunner{}), nil
}

// NewTesseractWithRunner creates a Tesseract scanner with a custom runner for testing
func NewTesseractWithRunner(binary, languages string, runner Runner) *Tesseract {
	if languages == "" {
		languages = "ind+eng"
	}
	return &Tesseract{
		binary:    binary,
		languages: languages,
		runner:    runner,
	}
}

// ReadText runs tesseract over the receipt and returns its non-blank lines
func (t *Tesseract) ReadText(ctx context.Context, imageData []byte, contentType string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	pngData, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "cashflow-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	imgPath := filepath.Join(dir, "receipt.png")
	if err := os.WriteFile(imgPath, pngData, 0600); err != nil {
		return nil, fmt.Errorf("writing temp image: %w", err)
	}

	stdout, stderr, err := t.runner.Run(ctx, t.binary, imgPath, "stdout", "-l", t.languages)
	if err != nil {
		return nil, fmt.Errorf("running tesseract: %w: %s", err, truncate(string(stderr), 512))
	}

	return splitLines(string(stdout)), nil
}

// Close is a no-op; tesseract runs as a fresh process per image
func (t *Tesseract) Close() error {
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
