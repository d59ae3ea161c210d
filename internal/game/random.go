package game

import (
	"fmt"
	"math/rand"
)

// Randomizer chooses the kind of the next preview piece.
type Randomizer interface {
	Next() Kind
}

// UniformRandomizer picks every kind with equal probability on each draw.
// With the same seed two randomizers produce the same sequence.
type UniformRandomizer struct {
	rng *rand.Rand
}

func NewUniformRandomizer(seed int64) *UniformRandomizer {
	return &UniformRandomizer{rng: rand.New(rand.NewSource(seed))}
}

func (u *UniformRandomizer) Next() Kind {
	return Kinds[u.rng.Intn(len(Kinds))]
}

// BagRandomizer deals the seven kinds in shuffled bags so no kind repeats
// more than twice in a row.
type BagRandomizer struct {
	rng *rand.Rand
	bag []Kind
}

func NewBagRandomizer(seed int64) *BagRandomizer {
	return &BagRandomizer{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next kind from the bag.
func (b *BagRandomizer) Next() Kind {
	if len(b.bag) == 0 {
		b.refill()
	}
	k := b.bag[0]
	b.bag = b.bag[1:]
	return k
}

func (b *BagRandomizer) refill() {
	b.bag = append(b.bag[:0], Kinds...)
	// Fisher-Yates shuffle
	for i := len(b.bag) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	}
}

// NewRandomizer builds a randomizer by name: "uniform" (the default) or "bag".
func NewRandomizer(name string, seed int64) (Randomizer, error) {
	switch name {
	case "", "uniform":
		return NewUniformRandomizer(seed), nil
	case "bag":
		return NewBagRandomizer(seed), nil
	}
	return nil, fmt.Errorf("unknown randomizer %q", name)
}

// SequenceRandomizer replays a fixed list of kinds, cycling when exhausted.
type SequenceRandomizer struct {
	kinds []Kind
	pos   int
}

func NewSequenceRandomizer(kinds ...Kind) *SequenceRandomizer {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	return &SequenceRandomizer{kinds: kinds}
}

func (s *SequenceRandomizer) Next() Kind {
	k := s.kinds[s.pos%len(s.kinds)]
	s.pos++
	return k
}
