package labels

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Positions inside a Triple.
const (
	Region = 0
	Sex    = 1
	Drug   = 2
)

const (
	RegionCore    = "NAcc"
	RegionShell   = "NAcs"
	RegionDS      = "DS"
	RegionUnknown = "No Region Found"

	SexMale   = "Male"
	SexFemale = "Female"

	DrugBaseline    = "Baseline"
	Drug4AP         = "4AP"
	DrugCocaine     = "Cocaine"
	DrugEticlopride = "Eticlopride"
	DrugUnknown     = "Drug Unknown"
)

// Triple is (region, sex, drug). It is an array so assignment copies it.
type Triple [3]string

func (t Triple) Region() string { return t[Region] }
func (t Triple) Sex() string    { return t[Sex] }
func (t Triple) Drug() string   { return t[Drug] }

var names = [3]string{"region", "sex", "drug"}

// Valid reports whether idx is a position inside a Triple.
func Valid(idx int) bool { return idx >= Region && idx <= Drug }

// Name returns the column name of a label index.
func Name(idx int) string {
	if !Valid(idx) {
		return "label" + strconv.Itoa(idx)
	}
	return names[idx]
}

// ParseIndex accepts a column name or its numeric position.
func ParseIndex(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if s == n || s == strconv.Itoa(i) {
			return i, nil
		}
	}
	return -1, errors.Errorf("unknown label %q (want region, sex or drug)", s)
}

// RegionOf checks core, shell, then ds. First match wins.
func RegionOf(path string) string {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "core"):
		return RegionCore
	case strings.Contains(p, "shell"):
		return RegionShell
	case strings.Contains(p, "ds"):
		return RegionDS
	default:
		return RegionUnknown
	}
}

// SexOf defaults to Male; only "female" is actually detected.
func SexOf(path string) string {
	if strings.Contains(strings.ToLower(path), "female") {
		return SexFemale
	}
	return SexMale
}

var drugPrefixes = map[string]string{
	"00_": DrugBaseline,
	"01_": Drug4AP,
	"02_": DrugCocaine,
	"03_": DrugEticlopride,
}

// DrugOf looks up the first three bytes of name, case-sensitive.
func DrugOf(name string) string {
	if len(name) < 3 {
		return DrugUnknown
	}
	if d, ok := drugPrefixes[name[:3]]; ok {
		return d
	}
	return DrugUnknown
}

// Classify labels a recording. Region and sex come from the whole path,
// the drug prefix from its base name.
func Classify(path string) Triple {
	return Triple{RegionOf(path), SexOf(path), DrugOf(filepath.Base(path))}
}
