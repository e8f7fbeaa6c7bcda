package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Spades
	Hearts
	Diamonds
)

// Suits lists the four canonical suits in deck order
var Suits = []Suit{Clubs, Spades, Hearts, Diamonds}

// String returns the shorthand letter of a suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	default:
		return "?"
	}
}

// Symbol returns the unicode symbol of a suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	default:
		return "?"
	}
}

// Name returns the full name of a suit
func (s Suit) Name() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	default:
		return "?"
	}
}

// Valid returns true if the suit is one of the four canonical suits
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Diamonds
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Color returns the other suit of the same color as s. The pairs are
// Clubs/Spades and Hearts/Diamonds; under a trump suit the Jack of
// trump.Color() is the left bower.
func (s Suit) Color() Suit {
	switch s {
	case Clubs:
		return Spades
	case Spades:
		return Clubs
	case Hearts:
		return Diamonds
	default:
		return Hearts
	}
}

// ParseSuit converts a shorthand letter to a suit
func ParseSuit(letter string) (Suit, error) {
	switch letter {
	case "C", "c":
		return Clubs, nil
	case "S", "s":
		return Spades, nil
	case "H", "h":
		return Hearts, nil
	case "D", "d":
		return Diamonds, nil
	default:
		return 0, fmt.Errorf("invalid suit %q", letter)
	}
}

// MarshalText encodes the suit as its shorthand letter
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a suit from its shorthand letter
func (s *Suit) UnmarshalText(text []byte) error {
	suit, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = suit
	return nil
}

// Rank represents a card rank. Euchre uses only Nine through Ace.
type Rank int

const (
	Nine Rank = iota + 9
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists all euchre ranks from high to low
var Ranks = []Rank{Ace, King, Queen, Jack, Ten, Nine}

// String returns the display form of a rank
func (r Rank) String() string {
	switch r {
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// letter returns the single shorthand character of a rank ('1' for Ten)
func (r Rank) letter() byte {
	return r.String()[0]
}

// face returns the trump-free ordering of a rank, Nine lowest at 1
// through Ace at 6
func (r Rank) face() int {
	return int(r) - 8
}

// Card represents an immutable euchre playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character shorthand of a card, rank letter then
// suit letter ("AC" for the Ace of Clubs, "1S" for the Ten of Spades)
func (c Card) String() string {
	return string(c.Rank.letter()) + c.Suit.String()
}

// Name returns the long form of a card ("Ace of Clubs")
func (c Card) Name() string {
	return c.Rank.String() + " of " + c.Suit.Name()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsRightBower returns true if the card is the Jack of the trump suit
func (c Card) IsRightBower(trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump
}

// IsLeftBower returns true if the card is the Jack of the suit sharing
// trump's color
func (c Card) IsLeftBower(trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump.Color()
}

// EffectiveSuit returns the suit the card plays as under the given trump.
// The left bower counts as trump; every other card keeps its face suit.
func (c Card) EffectiveSuit(trump Suit) Suit {
	if c.IsLeftBower(trump) {
		return trump
	}
	return c.Suit
}

// Value returns the rank of the card inside a trick where led is the
// effective suit of the leader's card. The ordering is a strict total
// order over the cards that can appear in one trick: right bower above
// left bower above trump face cards above led-suit cards. Off-suit cards
// that did not follow the led suit are worth 0 and cannot take the trick.
func (c Card) Value(led, trump Suit) int {
	switch {
	case c.IsRightBower(trump):
		return 52
	case c.IsLeftBower(trump):
		return 51
	case c.Suit == trump:
		return c.Rank.face() + 6
	case c.Suit == led:
		return c.Rank.face()
	default:
		return 0
	}
}

// ParseCard converts a two-character shorthand string to a card
func ParseCard(shorthand string) (Card, error) {
	if len(shorthand) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", shorthand)
	}

	var rank Rank
	switch shorthand[0] {
	case '9':
		rank = Nine
	case '1', 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank %q", shorthand[0])
	}

	suit, err := ParseSuit(shorthand[1:2])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", shorthand, err)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCard is like ParseCard but panics on invalid input. Intended
// for fixtures and tests.
func MustParseCard(shorthand string) Card {
	card, err := ParseCard(shorthand)
	if err != nil {
		panic(err)
	}
	return card
}

// ParseCards converts a list of shorthands to cards
func ParseCards(shorthands ...string) ([]Card, error) {
	cards := make([]Card, 0, len(shorthands))
	for _, s := range shorthands {
		card, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on invalid input
func MustParseCards(shorthands ...string) []Card {
	cards, err := ParseCards(shorthands...)
	if err != nil {
		panic(err)
	}
	return cards
}

// MarshalText encodes the card as its shorthand for JSON and logs
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card from its shorthand
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}
