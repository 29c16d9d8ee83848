package labdocs

import (
	"context"
)

// Repository is the record store for lab documents.
//
// UpdateStatuses exists so a whole batch's reconciliation outcome is flushed
// in one call (and one transaction in the Postgres implementation): a crash
// mid-batch must not leave some records updated and others stale.
type Repository interface {
	CreateBatch(ctx context.Context, docs []*Document) error
	List(ctx context.Context) ([]*Document, error)
	UpdateStatuses(ctx context.Context, docs []*Document) error
}
