package dataset

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/fscv-lab/spons/labels"
)

// Unbalanced is the BalancedOn value of a dataset that has not been balanced.
const Unbalanced = -1

// Record is one chunk of a colorplot and its labels.
type Record struct {
	Provenance string // "<source> <end>"
	Source     string
	End        int // end offset of the chunk in samples
	Plot       *mat.Dense
	Labels     labels.Triple
	Class      string // derived label column, set by Balance
}

// NewRecord builds a record with its provenance string.
func NewRecord(source string, end int, plot *mat.Dense, l labels.Triple) Record {
	return Record{
		Provenance: Provenance(source, end),
		Source:     source,
		End:        end,
		Plot:       plot,
		Labels:     l,
	}
}

func Provenance(source string, end int) string {
	return source + " " + strconv.Itoa(end)
}

// Dataset is an ordered table of records.
type Dataset struct {
	ID         string
	Created    time.Time
	BalancedOn int
	Records    []Record
}

func New() *Dataset {
	return &Dataset{
		ID:         uuid.NewString(),
		Created:    time.Now().UTC(),
		BalancedOn: Unbalanced,
	}
}

// derive starts an empty dataset with d's balancing state and a fresh id.
func (d *Dataset) derive(n int) *Dataset {
	out := New()
	out.BalancedOn = d.BalancedOn
	out.Records = make([]Record, 0, n)
	return out
}

func (d *Dataset) Append(rs ...Record) { d.Records = append(d.Records, rs...) }

func (d *Dataset) Len() int { return len(d.Records) }

// Column returns the label at idx for every record, or nil when idx is not
// one of labels.Region, labels.Sex or labels.Drug.
func (d *Dataset) Column(idx int) []string {
	if !labels.Valid(idx) {
		return nil
	}
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Labels[idx]
	}
	return out
}

// Counts tallies records per value of the label at idx. An idx outside
// labels.Region..labels.Drug yields an empty table.
func (d *Dataset) Counts(idx int) map[string]int {
	counts := map[string]int{}
	if !labels.Valid(idx) {
		return counts
	}
	for _, r := range d.Records {
		counts[r.Labels[idx]]++
	}
	return counts
}

// Map returns a new dataset with fn applied to every record's plot.
func (d *Dataset) Map(fn func(Record) (*mat.Dense, error)) (*Dataset, error) {
	out := d.derive(len(d.Records))
	for _, r := range d.Records {
		p, err := fn(r)
		if err != nil {
			return nil, err
		}
		r.Plot = p
		out.Records = append(out.Records, r)
	}
	return out, nil
}

// SortedKeys returns the keys of a count table in lexical order.
func SortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
