package trends

import "testing"

func TestCleanSectionName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Morfologia krwi (ICD-9: C55)", "Morfologia krwi"},
		{"  Biochemia  ", "Biochemia"},
		{"Mocz (ICD-9: A01) ", "Mocz"},
		{"", "Other"},
		{"   ", "Other"},
		{"Morfologia", "Morfologia"},
	}
	for _, tc := range cases {
		if got := CleanSectionName(tc.in); got != tc.want {
			t.Errorf("CleanSectionName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanParameterName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hemoglobina [g/dl]", "Hemoglobina"},
		{"Leukocyty (WBC)", "Leukocyty"},
		{"  Erytrocyty  ", "Erytrocyty"},
		{"MCV", "MCV"},
		{"Żelazo [ug/dl]", "Żelazo"},
	}
	for _, tc := range cases {
		if got := CleanParameterName(tc.in); got != tc.want {
			t.Errorf("CleanParameterName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalParameterName_SynonymFolding(t *testing.T) {
	for _, variant := range []string{"NRBC$", "NRBCH", "NRBC #", "NRBC%", "NRBC %"} {
		if got := CanonicalParameterName(variant); got != "NRBC" {
			t.Errorf("CanonicalParameterName(%q) = %q, want NRBC", variant, got)
		}
	}
}

func TestCanonicalParameterName_Idempotent(t *testing.T) {
	// A canonical name passes through unchanged.
	for _, name := range []string{"NRBC", "Hemoglobina", "MCV"} {
		if got := CanonicalParameterName(name); got != name {
			t.Errorf("CanonicalParameterName(%q) = %q, expected unchanged", name, got)
		}
	}
}

func TestCleanUnit(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"g/dl", "g/dl"},
		{"m ln/ul", "mln/ul"},
		{"pg*", "pg"},
		{"$U/l", "U/l"},
		{" fl ", "fl"},
	}
	for _, tc := range cases {
		if got := CleanUnit(tc.in); got != tc.want {
			t.Errorf("CleanUnit(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalUnit_SynonymFolding(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"min/ul", "mln/ul"},
		{"f", "fl"},
		{"fi", "fl"},
		{"fI", "fl"},
		{"UI", "U/l"},
		{"UJ", "U/l"},
		{"pe", "pg"},
	}
	for _, tc := range cases {
		if got := CanonicalUnit(tc.in); got != tc.want {
			t.Errorf("CanonicalUnit(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalUnit_Idempotent(t *testing.T) {
	for _, unit := range []string{"mln/ul", "fl", "U/l", "pg", "g/dl"} {
		if got := CanonicalUnit(unit); got != unit {
			t.Errorf("CanonicalUnit(%q) = %q, expected unchanged", unit, got)
		}
	}
}

func TestNormalizeUnit(t *testing.T) {
	pgStar := "pg*"
	if got := NormalizeUnit(&pgStar); got != "pg" {
		t.Errorf("NormalizeUnit(pg*) = %q, want pg", got)
	}
	if got := NormalizeUnit(nil); got != "" {
		t.Errorf("NormalizeUnit(nil) = %q, want empty", got)
	}
	empty := ""
	if got := NormalizeUnit(&empty); got != "" {
		t.Errorf("NormalizeUnit(\"\") = %q, want empty", got)
	}
}
