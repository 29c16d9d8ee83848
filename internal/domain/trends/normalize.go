package trends

import (
	"regexp"
	"strings"
)

// DefaultSection labels results whose report section is missing or empty.
const DefaultSection = "Other"

// Lab reports restate the same parameter and unit in many spellings,
// depending on the issuing lab and on OCR noise. The tables below fold known
// variants onto one canonical form with exact string matches; anything
// unknown passes through unchanged, which keeps the mapping auditable.

var unitSynonyms = map[string]string{
	"min/ul": "mln/ul",
	"f":      "fl",
	"fi":     "fl",
	"fI":     "fl",
	"UI":     "U/l",
	"UJ":     "U/l",
	"pe":     "pg",
	"pg*":    "pg",
}

var parameterSynonyms = map[string]string{
	"NRBC$":  "NRBC",
	"NRBCH":  "NRBC",
	"NRBC #": "NRBC",
	"NRBC%":  "NRBC",
	"NRBC %": "NRBC",
}

var (
	// trailing classification-code annotation, e.g. "Morfologia (ICD-9: C55)"
	sectionCodeSuffix = regexp.MustCompile(`\s*\(ICD-9:.*\)`)
	// trailing bracketed or parenthesized suffix, usually a restated unit,
	// e.g. "Hemoglobina [g/dl]"
	parameterSuffix = regexp.MustCompile(`\s*[\[\(].*?[\]\)]$`)
	// asterisks, dollar signs and whitespace inside a unit are OCR junk
	unitJunk = regexp.MustCompile(`[*$\s]`)
)

// CleanSectionName strips the classification-code suffix and surrounding
// whitespace. A missing section name maps to DefaultSection.
func CleanSectionName(raw string) string {
	name := strings.TrimSpace(sectionCodeSuffix.ReplaceAllString(raw, ""))
	if name == "" {
		return DefaultSection
	}
	return name
}

// CleanParameterName strips a trailing bracketed/parenthesized suffix and
// surrounding whitespace.
func CleanParameterName(raw string) string {
	return strings.TrimSpace(parameterSuffix.ReplaceAllString(raw, ""))
}

// CanonicalParameterName folds known alternate spellings onto the canonical
// parameter name. Input is expected to be cleaned already.
func CanonicalParameterName(name string) string {
	if canonical, ok := parameterSynonyms[name]; ok {
		return canonical
	}
	return name
}

// CleanUnit removes asterisks, dollar signs, and internal whitespace.
func CleanUnit(raw string) string {
	return unitJunk.ReplaceAllString(raw, "")
}

// CanonicalUnit folds known unit variants onto the canonical unit. Input is
// expected to be cleaned already.
func CanonicalUnit(unit string) string {
	if canonical, ok := unitSynonyms[unit]; ok {
		return canonical
	}
	return unit
}

// NormalizeParameter runs the full parameter-name pipeline: cleanup then
// synonym folding.
func NormalizeParameter(raw string) string {
	return CanonicalParameterName(CleanParameterName(raw))
}

// NormalizeUnit runs the full unit pipeline on an optional raw unit. A nil
// or empty unit normalizes to "".
func NormalizeUnit(raw *string) string {
	if raw == nil || *raw == "" {
		return ""
	}
	return CanonicalUnit(CleanUnit(*raw))
}
