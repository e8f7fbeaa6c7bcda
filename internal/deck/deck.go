package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a euchre deck
const Size = 24

// HandSize is the number of cards dealt to each player
const HandSize = 5

// Partition is a fixed deal: four hands of five plus the four-card kitty.
// Registering one on a Deck makes every Deal return it unchanged, which
// gives reproducible fixtures without touching the shuffle path.
type Partition struct {
	Hands [4][]Card
	Kitty []Card
}

// Deck holds the 24 euchre cards. The same cards are reshuffled and
// re-dealt every round; a card carries no state between rounds.
type Deck struct {
	cards  []Card
	rng    *rand.Rand
	preset *Partition
}

// Option configures a Deck
type Option func(*Deck)

// WithPartition makes the deck always deal the given fixed partition.
// The substitution is total: the live card ordering is never consulted.
func WithPartition(p Partition) Option {
	return func(d *Deck) {
		d.preset = &p
	}
}

// New creates the 24-card euchre deck in canonical order, suits
// Clubs/Spades/Hearts/Diamonds, ranks Ace down to Nine within each suit.
// The rng drives Shuffle; pass a seeded rng for reproducible games.
func New(rng *rand.Rand, opts ...Option) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Shuffle randomizes the order of the cards. A deck with a registered
// partition never shuffles.
func (d *Deck) Shuffle() {
	if d.preset != nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal partitions the deck into four 5-card hands and a 4-card kitty.
// The split is positional (card i goes to pile i mod 5); randomness comes
// from Shuffle alone. The returned slices are fresh copies, so a round
// cannot mutate the deck through them.
func (d *Deck) Deal() Partition {
	if d.preset != nil {
		return d.preset.clone()
	}

	var p Partition
	for i := range p.Hands {
		p.Hands[i] = make([]Card, 0, HandSize)
	}
	p.Kitty = make([]Card, 0, Size-4*HandSize)

	for i, card := range d.cards {
		pile := i % 5
		if pile == 4 {
			p.Kitty = append(p.Kitty, card)
		} else {
			p.Hands[pile] = append(p.Hands[pile], card)
		}
	}
	return p
}

// Cards returns a copy of the deck's current ordering
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

func (p *Partition) clone() Partition {
	var out Partition
	for i, hand := range p.Hands {
		out.Hands[i] = make([]Card, len(hand))
		copy(out.Hands[i], hand)
	}
	out.Kitty = make([]Card, len(p.Kitty))
	copy(out.Kitty, p.Kitty)
	return out
}

// BalancedPartition is the deal an unshuffled deck produces: every hand
// holds a spread of suits and no hand dominates trump for any call. Used
// as the standard fixture for scripted games.
func BalancedPartition() Partition {
	return Partition{
		Hands: [4][]Card{
			MustParseCards("AC", "9C", "1S", "JH", "QD"),
			MustParseCards("KC", "AS", "9S", "1H", "JD"),
			MustParseCards("QC", "KS", "AH", "9H", "1D"),
			MustParseCards("JC", "QS", "KH", "AD", "9D"),
		},
		Kitty: MustParseCards("1C", "JS", "QH", "KD"),
	}
}
