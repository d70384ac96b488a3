package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// Config bounds the extraction work per document so the prompt stays within
// budget regardless of input size.
type Config struct {
	// MaxChars stops page reading once this many characters are collected.
	MaxChars int
	// MaxPages caps how many pages are read per document.
	MaxPages int
	// MinFileSize and MaxFileSize gate obviously broken or oversized inputs
	// before parsing. Zero disables a bound.
	MinFileSize int64
	MaxFileSize int64
}

func (c Config) normalize() Config {
	out := c
	if out.MaxChars <= 0 {
		out.MaxChars = 4000
	}
	if out.MaxPages <= 0 {
		out.MaxPages = 10
	}
	return out
}

// Extractor reads PDF text page by page, lazily bounded by the configured
// character budget.
type Extractor struct {
	cfg Config
}

func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg.normalize()}
}

// Extract returns plain text for the document at path. Unparseable or
// encrypted PDFs fail with ErrExtraction; a parseable PDF that yields zero
// characters (e.g. a pure image scan) fails with ErrNoExtractableText so the
// caller can skip the backend entirely.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "stat document", err)
	}
	if e.cfg.MinFileSize > 0 && info.Size() < e.cfg.MinFileSize {
		return "", domain.WrapError(domain.ErrExtraction, "size gate",
			fmt.Errorf("file is %d bytes, below minimum %d", info.Size(), e.cfg.MinFileSize))
	}
	if e.cfg.MaxFileSize > 0 && info.Size() > e.cfg.MaxFileSize {
		return "", domain.WrapError(domain.ErrExtraction, "size gate",
			fmt.Errorf("file is %d bytes, above maximum %d", info.Size(), e.cfg.MaxFileSize))
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}
	defer f.Close()

	text, err := e.readPages(ctx, reader)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrNoExtractableText, "extract text", errors.New("document yields no text"))
	}
	return text, nil
}

// readPages walks the page tree under the character budget. The pdf library
// panics on some malformed content streams, so the walk runs under recover.
func (e *Extractor) readPages(ctx context.Context, reader *pdf.Reader) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtraction, "read pages", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	var b strings.Builder
	pages := reader.NumPage()
	if pages > e.cfg.MaxPages {
		pages = e.cfg.MaxPages
	}
	for pageIndex := 1; pageIndex <= pages; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", domain.WrapError(domain.ErrExtraction, "extract cancelled", err)
		}
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			// skip unparseable pages
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
		if b.Len() >= e.cfg.MaxChars {
			break
		}
	}

	out := strings.TrimSpace(b.String())
	if len(out) > e.cfg.MaxChars {
		out = strings.ToValidUTF8(out[:e.cfg.MaxChars], "")
	}
	return out, nil
}
