package trends

import (
	"encoding/json"
	"fmt"
)

// Payload is the structured analysis result stored on a completed document.
// The upload pipeline treats it as opaque; only this package looks inside.
type Payload struct {
	Meta         Meta          `json:"meta"`
	Examinations []Examination `json:"examinations"`
}

type Meta struct {
	DateExamination string `json:"date_examination"`
}

// Examination is one report section, e.g. a blood-count panel.
type Examination struct {
	ExaminationName string      `json:"examination_name"`
	Results         []LabResult `json:"results"`
}

// LabResult is a single measured parameter as the analysis service reports
// it: raw names and units, optional reference range, optional abnormal flag.
type LabResult struct {
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	Unit     *string  `json:"unit,omitempty"`
	RangeMin *float64 `json:"range_min,omitempty"`
	RangeMax *float64 `json:"range_max,omitempty"`
	Flag     *string  `json:"flag,omitempty"`
}

// ParsePayload decodes a stored analysis payload.
func ParsePayload(raw string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parse analysis payload: %w", err)
	}
	return &p, nil
}
