package trends

import (
	"sort"
	"strings"
	"time"

	"github.com/labtrend/labtrend/internal/domain/labdocs"
)

// Point is one measurement in a series, ready for charting.
type Point struct {
	Date     string   `json:"date"`
	Value    float64  `json:"value"`
	Unit     string   `json:"unit,omitempty"`
	RangeMin *float64 `json:"rangeMin,omitempty"`
	RangeMax *float64 `json:"rangeMax,omitempty"`
	Flag     string   `json:"flag,omitempty"`

	parsed   time.Time
	parsedOK bool
}

// Series is the date-ordered value history of one canonical
// (section, parameter, unit) identity across all completed documents.
// RangeMin/RangeMax carry the reference range for chart shading, taken from
// the most recent point that has both bounds.
type Series struct {
	Section   string   `json:"section"`
	Parameter string   `json:"parameter"`
	Unit      string   `json:"unit,omitempty"`
	Label     string   `json:"label"`
	Points    []Point  `json:"points"`
	RangeMin  *float64 `json:"rangeMin,omitempty"`
	RangeMax  *float64 `json:"rangeMax,omitempty"`
}

// SectionTrends groups the series of one report section.
type SectionTrends struct {
	Section string    `json:"section"`
	Series  []*Series `json:"series"`
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseExamDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// seriesKey is the canonical identity results merge under. The unit segment
// is omitted when the result has no unit, so "NRBC" with and without a unit
// stay distinct series.
type seriesKey struct {
	section   string
	parameter string
	unit      string
}

func label(k seriesKey) string {
	base := k.section + " - " + k.parameter
	if k.unit != "" {
		return base + " [" + k.unit + "]"
	}
	return base
}

// BuildSeries rebuilds the full trend structure from the current snapshot of
// documents. It is a pure read-only pass: documents that are not Completed,
// carry no payload, fail to parse, or lack an examination date contribute
// nothing and raise no error.
func BuildSeries(docs []*labdocs.Document) []SectionTrends {
	series := make(map[seriesKey]*Series)

	for _, doc := range docs {
		if doc.Status != labdocs.StatusCompleted || doc.AnalysisJSON == nil {
			continue
		}
		payload, err := ParsePayload(*doc.AnalysisJSON)
		if err != nil {
			continue
		}
		date := payload.Meta.DateExamination
		if date == "" {
			continue
		}
		parsed, parsedOK := parseExamDate(date)

		// One document contributes at most one point per distinct key.
		seen := make(map[seriesKey]bool)

		for _, exam := range payload.Examinations {
			section := CleanSectionName(exam.ExaminationName)
			for _, res := range exam.Results {
				key := seriesKey{
					section:   section,
					parameter: NormalizeParameter(res.Name),
					unit:      NormalizeUnit(res.Unit),
				}
				if seen[key] {
					continue
				}
				seen[key] = true

				s, ok := series[key]
				if !ok {
					s = &Series{
						Section:   key.section,
						Parameter: key.parameter,
						Unit:      key.unit,
						Label:     label(key),
					}
					series[key] = s
				}

				flag := ""
				if res.Flag != nil {
					flag = trimFlag(*res.Flag)
				}
				s.Points = append(s.Points, Point{
					Date:     date,
					Value:    res.Value,
					Unit:     key.unit,
					RangeMin: res.RangeMin,
					RangeMax: res.RangeMax,
					Flag:     flag,
					parsed:   parsed,
					parsedOK: parsedOK,
				})
			}
		}
	}

	for _, s := range series {
		sortPoints(s.Points)
		s.RangeMin, s.RangeMax = latestRange(s.Points)
	}

	return groupBySection(series)
}

// sortPoints orders ascending by parsed examination date. Points whose date
// never parsed sort before parseable ones by their raw string; ties keep
// insertion order.
func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		switch {
		case a.parsedOK && b.parsedOK:
			return a.parsed.Before(b.parsed)
		case !a.parsedOK && !b.parsedOK:
			return a.Date < b.Date
		default:
			return !a.parsedOK
		}
	})
}

// latestRange scans the sorted points from the end and returns the bounds of
// the most recent point that has both. Without such a point the series has
// no reference band.
func latestRange(points []Point) (*float64, *float64) {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].RangeMin != nil && points[i].RangeMax != nil {
			return points[i].RangeMin, points[i].RangeMax
		}
	}
	return nil, nil
}

func trimFlag(flag string) string {
	return strings.TrimSpace(flag)
}

// groupBySection produces deterministic output: sections alphabetically,
// series within a section by parameter then unit.
func groupBySection(series map[seriesKey]*Series) []SectionTrends {
	bySection := make(map[string][]*Series)
	for key, s := range series {
		bySection[key.section] = append(bySection[key.section], s)
	}

	sections := make([]string, 0, len(bySection))
	for name := range bySection {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	out := make([]SectionTrends, 0, len(sections))
	for _, name := range sections {
		list := bySection[name]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Parameter != list[j].Parameter {
				return list[i].Parameter < list[j].Parameter
			}
			return list[i].Unit < list[j].Unit
		})
		out = append(out, SectionTrends{Section: name, Series: list})
	}
	return out
}
