package dataset

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/fscv-lab/spons/labels"
)

// NewRand returns a source seeded with seed, or with the clock when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Balance downsamples every value of the label at idx to the count of the
// rarest value. Records are shuffled with rng first, so which records of the
// larger classes survive is random. The result is grouped by class in the
// order each class first appears after the shuffle.
func Balance(d *Dataset, idx int, rng *rand.Rand) (*Dataset, error) {
	if !labels.Valid(idx) {
		return nil, errors.Errorf("balance: label index %d out of range [0, 2]", idx)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	shuffled := make([]Record, len(d.Records))
	for i, r := range d.Records {
		r.Class = r.Labels[idx]
		shuffled[i] = r
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var order []string
	groups := map[string][]Record{}
	for _, r := range shuffled {
		if _, ok := groups[r.Class]; !ok {
			order = append(order, r.Class)
		}
		groups[r.Class] = append(groups[r.Class], r)
	}

	minVal := 0
	for i, c := range order {
		if n := len(groups[c]); i == 0 || n < minVal {
			minVal = n
		}
	}

	out := d.derive(minVal * len(order))
	out.BalancedOn = idx
	for _, c := range order {
		out.Records = append(out.Records, groups[c][:minVal]...)
	}
	return out, nil
}
