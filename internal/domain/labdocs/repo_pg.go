package labdocs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const documentCols = `id, file_name, file_path, status, analysis_json, uploaded_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.FileName, &d.FilePath, &d.Status, &d.AnalysisJSON, &d.UploadedAt)
	return &d, err
}

func (r *repoPG) CreateBatch(ctx context.Context, docs []*Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range docs {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO lab_document (id, file_name, file_path, status, analysis_json, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID, d.FileName, d.FilePath, d.Status, d.AnalysisJSON, d.UploadedAt)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", d.FileName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create batch: %w", err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentCols+` FROM lab_document ORDER BY uploaded_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateStatuses(ctx context.Context, docs []*Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range docs {
		_, err := tx.Exec(ctx, `
			UPDATE lab_document SET status = $2, analysis_json = $3 WHERE id = $1`,
			d.ID, d.Status, d.AnalysisJSON)
		if err != nil {
			return fmt.Errorf("update document %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}
