package labdocs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/labtrend/labtrend/internal/analyzer"
	"github.com/labtrend/labtrend/internal/platform/blobstore"
)

var (
	// ErrNoFiles rejects an upload request that carries no files.
	ErrNoFiles = errors.New("no files were uploaded")
	// ErrAnalyzerDown is returned when the batched analysis call failed
	// wholesale. The documents are persisted with Error status, so a retry
	// of the whole upload is meaningful.
	ErrAnalyzerDown = errors.New("the analysis service is currently unavailable; the documents were saved but could not be processed")
)

// UploadFile is one file in an upload batch.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// Service runs the upload/reconciliation pipeline: persist blobs, create
// Pending records, issue one batched analysis call, reconcile the outcomes,
// and flush every record's final status in a single store call.
type Service struct {
	repo   Repository
	blobs  blobstore.Store
	client analyzer.Client
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, blobs blobstore.Store, client analyzer.Client, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Upload processes one batch of files as a single unit. All blob writes and
// record creation complete before the analysis call is issued; partial
// batches are never sent. On return every document in the batch is Completed
// or Error, and that state has been flushed to the record store. The all-fail
// branch also flushes, then returns ErrAnalyzerDown.
func (s *Service) Upload(ctx context.Context, files []UploadFile) ([]*Document, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// Persist every blob first. If any write fails, remove the blobs already
	// written so no file exists without a record.
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path, err := s.blobs.Save(ctx, f.Name, f.Content)
		if err != nil {
			s.removeBlobs(ctx, paths)
			return nil, fmt.Errorf("saving file %s: %w", f.Name, err)
		}
		paths = append(paths, path)
	}

	docs := make([]*Document, 0, len(files))
	for i, f := range files {
		docs = append(docs, &Document{
			FileName:   f.Name,
			FilePath:   paths[i],
			Status:     StatusPending,
			UploadedAt: s.now().UTC(),
		})
	}

	if err := s.repo.CreateBatch(ctx, docs); err != nil {
		s.removeBlobs(ctx, paths)
		return nil, fmt.Errorf("creating document records: %w", err)
	}

	results, err := s.client.Analyze(ctx, paths)
	if err != nil {
		if errors.Is(err, analyzer.ErrUnavailable) || errors.Is(err, analyzer.ErrRejected) {
			s.logger.Error().Err(err).Int("batch_size", len(docs)).Msg("analysis call failed, failing whole batch")
			MarkAllFailed(docs)
			if ferr := s.repo.UpdateStatuses(ctx, docs); ferr != nil {
				return nil, fmt.Errorf("persisting failed batch: %w", ferr)
			}
			return docs, ErrAnalyzerDown
		}
		return nil, fmt.Errorf("analysis call: %w", err)
	}

	Reconcile(docs, results, s.logger)

	if err := s.repo.UpdateStatuses(ctx, docs); err != nil {
		return nil, fmt.Errorf("persisting batch statuses: %w", err)
	}
	return docs, nil
}

// List returns all stored documents, oldest first.
func (s *Service) List(ctx context.Context) ([]*Document, error) {
	return s.repo.List(ctx)
}

func (s *Service) removeBlobs(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.blobs.Remove(ctx, p); err != nil {
			s.logger.Warn().Str("path", p).Err(err).Msg("failed to remove orphaned blob")
		}
	}
}
