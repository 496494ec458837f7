package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// TesseractConfig configures the external tesseract invocation.
type TesseractConfig struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string
	PSM         int // 0 = tesseract default
	OEM         int // 0 = tesseract default
}

// Tesseract recognizes images by shelling out to the tesseract binary in
// TSV mode, which carries per-word confidence alongside the text.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

// TesseractOption configures optional Tesseract dependencies.
type TesseractOption func(*Tesseract)

// WithRunner replaces the command runner, for tests.
func WithRunner(r Runner) TesseractOption {
	return func(t *Tesseract) { t.runner = r }
}

// WithLogger sets the logger used for recognition diagnostics.
func WithLogger(l *slog.Logger) TesseractOption {
	return func(t *Tesseract) { t.logger = l }
}

func NewTesseract(cfg TesseractConfig, opts ...TesseractOption) *Tesseract {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	t := &Tesseract{cfg: cfg, runner: execRunner{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (Result, error) {
	args := []string{imagePath, "stdout", "-l", t.cfg.Language}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	start := time.Now()
	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		t.logger.ErrorContext(ctx, "tesseract failed",
			"image", imagePath,
			"duration_ms", time.Since(start).Milliseconds(),
			"stderr", truncate(string(errb), 8<<10),
			"error", err,
		)
		return Result{}, fmt.Errorf("tesseract: %w", err)
	}

	res := parseTSV(string(out))
	t.logger.DebugContext(ctx, "tesseract ok",
		"image", imagePath,
		"duration_ms", time.Since(start).Milliseconds(),
		"words", len(res.Words),
	)
	return res, nil
}

// parseTSV turns tesseract TSV output into words and reconstructed text.
// Rows with conf -1 are structural (pages, blocks, lines) and carry no
// recognized token.
func parseTSV(out string) Result {
	var (
		words []Word
		text  strings.Builder
	)
	for i, line := range strings.Split(out, "\n") {
		if i == 0 || line == "" { // header
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			// A new line record follows; keep the reconstructed text in
			// line-oriented shape for the pattern stage.
			if cols[10] == "-1" && text.Len() > 0 && text.String()[text.Len()-1] != '\n' {
				text.WriteByte('\n')
			}
			continue
		}
		token := cols[11]
		if strings.TrimSpace(token) == "" {
			continue
		}
		words = append(words, Word{Text: token, Confidence: conf})
		if text.Len() > 0 && text.String()[text.Len()-1] != '\n' {
			text.WriteByte(' ')
		}
		text.WriteString(token)
	}
	return Result{Text: strings.TrimSpace(text.String()), Words: words}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
