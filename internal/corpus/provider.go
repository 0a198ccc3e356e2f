package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	pkgerrors "github.com/gutensearch/gutensearch/pkg/errors"
	"github.com/gutensearch/gutensearch/pkg/logger"
)

// Document is one tokenized corpus entry: a whole book or a fixed-size
// overlapping chunk of one. Chunk ids carry a book-id prefix, e.g. "2701_3".
type Document struct {
	ID     string   `json:"doc_id"`
	Tokens []string `json:"tokens"`
}

// Provider streams tokenized documents to a build stage. Implementations
// skip individual malformed records (counting them) and only return an error
// for failures that make the whole source unusable.
type Provider interface {
	// Each calls fn for every readable document. It stops early if fn or
	// ctx returns an error.
	Each(ctx context.Context, fn func(Document) error) error
	// Skipped reports how many records were dropped during the last Each.
	Skipped() int
}

// maxRecordSize bounds a single corpus line; whole-book token lists for the
// largest Gutenberg texts stay well under this.
const maxRecordSize = 64 << 20

// FileProvider reads a JSON-lines corpus file, one Document per line.
type FileProvider struct {
	path    string
	skipped int
	logger  *slog.Logger
}

// NewFileProvider creates a provider for the given JSON-lines file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{
		path:   path,
		logger: logger.WithComponent("corpus-file"),
	}
}

// Each streams every document in the file. A line that fails to decode or
// carries an empty id is skipped with a warning; a missing file is fatal.
func (p *FileProvider) Each(ctx context.Context, fn func(Document) error) error {
	f, err := os.Open(p.path)
	if err != nil {
		return fmt.Errorf("opening corpus file %s: %w", p.path, err)
	}
	defer f.Close()

	p.skipped = 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), maxRecordSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			p.skipped++
			p.logger.Warn("skipping corpus record", "line", line,
				"error", fmt.Errorf("%w: %v", pkgerrors.ErrRecordDecode, err))
			continue
		}
		if doc.ID == "" {
			p.skipped++
			p.logger.Warn("skipping corpus record", "line", line,
				"error", fmt.Errorf("%w: missing doc_id", pkgerrors.ErrRecordDecode))
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading corpus file %s: %w", p.path, err)
	}
	return nil
}

// Skipped reports how many records were dropped during the last Each.
func (p *FileProvider) Skipped() int {
	return p.skipped
}
