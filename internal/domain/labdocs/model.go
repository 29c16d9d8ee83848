package labdocs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the processing state of an uploaded document. A document starts
// Pending and always ends an upload cycle as Completed or Error; there is no
// transition out of a terminal state within one cycle.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusError     Status = "Error"
)

// Document maps to the lab_document table. FilePath is the canonical
// absolute storage path with '/' separators; it is unique per record and is
// the key used to match analysis results back to their documents.
type Document struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FileName     string    `db:"file_name" json:"fileName"`
	FilePath     string    `db:"file_path" json:"filePath"`
	Status       Status    `db:"status" json:"status"`
	AnalysisJSON *string   `db:"analysis_json" json:"analysisJson,omitempty"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// Response is the API shape for a document. AnalysisJSON is inlined as a raw
// JSON object rather than a double-encoded string.
type Response struct {
	ID           uuid.UUID       `json:"id"`
	FileName     string          `json:"fileName"`
	FilePath     string          `json:"filePath"`
	Status       Status          `json:"status"`
	AnalysisJSON json.RawMessage `json:"analysisJson,omitempty"`
	UploadedAt   time.Time       `json:"uploadedAt"`
}

func (d *Document) ToResponse() Response {
	r := Response{
		ID:         d.ID,
		FileName:   d.FileName,
		FilePath:   d.FilePath,
		Status:     d.Status,
		UploadedAt: d.UploadedAt,
	}
	if d.AnalysisJSON != nil {
		r.AnalysisJSON = json.RawMessage(*d.AnalysisJSON)
	}
	return r
}

// ToResponses converts a batch, preserving order.
func ToResponses(docs []*Document) []Response {
	out := make([]Response, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToResponse())
	}
	return out
}
