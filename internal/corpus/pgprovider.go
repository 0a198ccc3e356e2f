package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	pkgerrors "github.com/gutensearch/gutensearch/pkg/errors"
	"github.com/gutensearch/gutensearch/pkg/logger"
	"github.com/gutensearch/gutensearch/pkg/postgres"
)

// PostgresProvider streams the tokenized corpus out of the documents table:
//
//	CREATE TABLE documents (
//	    doc_id text PRIMARY KEY,
//	    tokens text[] NOT NULL
//	);
//
// Rows are read in doc_id order so repeated builds see the corpus in a
// stable sequence.
type PostgresProvider struct {
	client  *postgres.Client
	skipped int
	logger  *slog.Logger
}

// NewPostgresProvider creates a provider backed by the given client.
func NewPostgresProvider(client *postgres.Client) *PostgresProvider {
	return &PostgresProvider{
		client: client,
		logger: logger.WithComponent("corpus-postgres"),
	}
}

// Each streams every document row. A row that fails to scan is skipped with
// a warning; a query failure is fatal.
func (p *PostgresProvider) Each(ctx context.Context, fn func(Document) error) error {
	rows, err := p.client.DB.QueryContext(ctx,
		`SELECT doc_id, tokens FROM documents ORDER BY doc_id`)
	if err != nil {
		return fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	p.skipped = 0
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, pq.Array(&doc.Tokens)); err != nil {
			p.skipped++
			p.logger.Warn("skipping document row",
				"error", fmt.Errorf("%w: %v", pkgerrors.ErrRecordDecode, err))
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating documents: %w", err)
	}
	return nil
}

// Skipped reports how many rows were dropped during the last Each.
func (p *PostgresProvider) Skipped() int {
	return p.skipped
}
