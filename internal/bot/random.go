package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// Random picks uniformly among legal choices. Useful as a baseline
// opponent and for soaking the engine in tests.
type Random struct {
	name    string
	rng     *rand.Rand
	logger  *log.Logger
	hand    []deck.Card
	topCard deck.Card
}

// NewRandom creates a random bot
func NewRandom(name string, rng *rand.Rand, logger *log.Logger) *Random {
	return &Random{
		name:   name,
		rng:    rng,
		logger: logger.WithPrefix("bot." + name),
	}
}

// Name implements game.Player
func (b *Random) Name() string { return b.name }

// UpdateHand implements game.Player
func (b *Random) UpdateHand(cards []deck.Card) {
	b.hand = append([]deck.Card{}, cards...)
}

// OrderUp bids one deal in four
func (b *Random) OrderUp() bool {
	return b.rng.IntN(4) == 0
}

// DiscardCard takes the top card and sheds a random card
func (b *Random) DiscardCard(top deck.Card) deck.Card {
	b.hand = append(b.hand, top)
	card := b.hand[b.rng.IntN(len(b.hand))]
	b.hand = removeCard(b.hand, card)
	return card
}

// OrderTrump bids one deal in four
func (b *Random) OrderTrump() bool {
	return b.rng.IntN(4) == 0
}

// CallTrump names a random callable suit
func (b *Random) CallTrump(turnedDown deck.Suit) deck.Suit {
	var callable []deck.Suit
	for _, s := range deck.Suits {
		if s != turnedDown {
			callable = append(callable, s)
		}
	}
	return callable[b.rng.IntN(len(callable))]
}

// GoAlone goes alone one time in ten
func (b *Random) GoAlone() bool {
	return b.rng.IntN(10) == 0
}

// PlayCard plays a uniformly random legal card
func (b *Random) PlayCard(view game.TrickView) deck.Card {
	legal := legalCards(b.hand, view)
	card := legal[b.rng.IntN(len(legal))]
	b.hand = removeCard(b.hand, card)
	b.logger.Debug("playing", "card", card, "trick", view.Trick)
	return card
}

// Notify tracks the turned-up card
func (b *Random) Notify(event game.Event) {
	if e, ok := event.(game.TopCardEvent); ok {
		b.topCard = e.Card
	}
}
