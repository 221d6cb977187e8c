package texts

import (
	"math/rand"
	"time"
)

// Picker selects practice texts at random.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewPickerWithSeed returns a deterministic Picker.
func NewPickerWithSeed(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns a random entry, or ErrNoTexts when the slice is empty.
func (p *Picker) Pick(candidates []Text) (Text, error) {
	if len(candidates) == 0 {
		return Text{}, ErrNoTexts
	}
	return candidates[p.rnd.Intn(len(candidates))], nil
}
