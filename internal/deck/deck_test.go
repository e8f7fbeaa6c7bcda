package deck

import (
	rand "math/rand/v2"
	"testing"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestDealPartition(t *testing.T) {
	d := New(testRNG(7))
	d.Shuffle()
	p := d.Deal()

	seen := make(map[Card]bool)
	for i, hand := range p.Hands {
		if len(hand) != HandSize {
			t.Errorf("hand %d has %d cards, want %d", i, len(hand), HandSize)
		}
		for _, card := range hand {
			if seen[card] {
				t.Errorf("card %v dealt twice", card)
			}
			seen[card] = true
		}
	}
	if len(p.Kitty) != 4 {
		t.Errorf("kitty has %d cards, want 4", len(p.Kitty))
	}
	for _, card := range p.Kitty {
		if seen[card] {
			t.Errorf("card %v dealt twice", card)
		}
		seen[card] = true
	}
	if len(seen) != Size {
		t.Errorf("deal covered %d cards, want %d", len(seen), Size)
	}
}

func TestDealUnshuffledIsDeterministic(t *testing.T) {
	a := New(testRNG(1)).Deal()
	b := New(testRNG(99)).Deal()

	for i := range a.Hands {
		if !cardsEqual(a.Hands[i], b.Hands[i]) {
			t.Errorf("hand %d differs between unshuffled deals", i)
		}
	}
	if !cardsEqual(a.Kitty, b.Kitty) {
		t.Error("kitty differs between unshuffled deals")
	}
}

func TestBalancedPartitionMatchesUnshuffledDeal(t *testing.T) {
	dealt := New(testRNG(1)).Deal()
	fixed := BalancedPartition()

	for i := range fixed.Hands {
		if !cardsEqual(dealt.Hands[i], fixed.Hands[i]) {
			t.Errorf("hand %d: dealt %v, fixture %v", i, dealt.Hands[i], fixed.Hands[i])
		}
	}
	if !cardsEqual(dealt.Kitty, fixed.Kitty) {
		t.Errorf("kitty: dealt %v, fixture %v", dealt.Kitty, fixed.Kitty)
	}
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a := New(testRNG(42))
	b := New(testRNG(42))
	a.Shuffle()
	b.Shuffle()

	if !cardsEqual(a.Cards(), b.Cards()) {
		t.Error("same seed produced different shuffles")
	}

	c := New(testRNG(43))
	c.Shuffle()
	if cardsEqual(a.Cards(), c.Cards()) {
		t.Error("different seeds produced identical shuffles")
	}
}

func TestPartitionPresetIsTotal(t *testing.T) {
	preset := BalancedPartition()
	d := New(testRNG(3), WithPartition(preset))

	// Shuffling must not disturb a preset deal
	for round := 0; round < 3; round++ {
		d.Shuffle()
		p := d.Deal()
		for i := range p.Hands {
			if !cardsEqual(p.Hands[i], preset.Hands[i]) {
				t.Errorf("round %d hand %d: got %v, want preset %v", round, i, p.Hands[i], preset.Hands[i])
			}
		}
		if !cardsEqual(p.Kitty, preset.Kitty) {
			t.Errorf("round %d kitty: got %v, want preset %v", round, p.Kitty, preset.Kitty)
		}
	}
}

func TestDealReturnsCopies(t *testing.T) {
	d := New(testRNG(5), WithPartition(BalancedPartition()))
	p := d.Deal()
	p.Hands[0][0] = MustParseCard("9D")
	p.Kitty[0] = MustParseCard("9D")

	q := d.Deal()
	if q.Hands[0][0] != MustParseCard("AC") {
		t.Errorf("mutating a dealt hand leaked into the deck: %v", q.Hands[0][0])
	}
	if q.Kitty[0] != MustParseCard("1C") {
		t.Errorf("mutating the dealt kitty leaked into the deck: %v", q.Kitty[0])
	}
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
