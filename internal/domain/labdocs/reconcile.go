package labdocs

import (
	"bytes"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/labtrend/labtrend/internal/analyzer"
	"github.com/labtrend/labtrend/internal/platform/blobstore"
)

// Reconcile maps per-file analysis outcomes back onto the batch's documents.
// Matching is by storage path normalized to '/' separators on both sides.
//
// Rules:
//   - a success outcome attaches the compacted payload and completes the record
//   - a declared failure marks the record Error
//   - duplicate response entries for the same path are logged and ignored
//     (first match wins)
//   - response entries for unknown paths are ignored
//   - every document the response never mentions is marked Error: silence
//     means failure, not still-pending
//
// After Reconcile returns, no document in the batch is Pending. Reconcile
// only mutates in memory; the caller flushes the batch to the store.
func Reconcile(batch []*Document, results []analyzer.FileResult, logger zerolog.Logger) {
	pending := make(map[string]*Document, len(batch))
	for _, d := range batch {
		pending[blobstore.NormalizePath(d.FilePath)] = d
	}

	for _, res := range results {
		key := blobstore.NormalizePath(res.File)
		doc, ok := pending[key]
		if !ok {
			// Either a duplicate entry for an already consumed path or an
			// entry we never asked about.
			logger.Warn().Str("file", res.File).Msg("analysis result does not match a pending document")
			continue
		}

		if res.Status == analyzer.StatusSuccess {
			payload, err := compactJSON(res.Data)
			if err != nil {
				logger.Warn().Str("file", res.File).Err(err).Msg("success result carries invalid data, marking document failed")
				doc.Status = StatusError
			} else {
				doc.AnalysisJSON = &payload
				doc.Status = StatusCompleted
			}
		} else {
			doc.Status = StatusError
		}
		delete(pending, key)
	}

	for _, doc := range pending {
		doc.Status = StatusError
	}
}

// MarkAllFailed is the all-fail branch: the analysis call failed wholesale,
// so every document in the batch becomes Error with no payload.
func MarkAllFailed(batch []*Document) {
	for _, d := range batch {
		d.Status = StatusError
		d.AnalysisJSON = nil
	}
}

// compactJSON re-serializes the opaque data object without insignificant
// whitespace, the form in which payloads are stored.
func compactJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}
