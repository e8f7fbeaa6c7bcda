package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// orderUpThreshold is the trump count at which a greedy bot bids
const orderUpThreshold = 3

// Greedy plays a simple value heuristic: bid with three or more trump,
// go alone on a loaded hand, win tricks as cheaply as possible, and
// shed the weakest card when it cannot win.
type Greedy struct {
	name    string
	rng     *rand.Rand
	logger  *log.Logger
	hand    []deck.Card
	topCard deck.Card
	trump   deck.Suit
}

// NewGreedy creates a greedy bot
func NewGreedy(name string, rng *rand.Rand, logger *log.Logger) *Greedy {
	return &Greedy{
		name:   name,
		rng:    rng,
		logger: logger.WithPrefix("bot." + name),
	}
}

// Name implements game.Player
func (b *Greedy) Name() string { return b.name }

// UpdateHand implements game.Player
func (b *Greedy) UpdateHand(cards []deck.Card) {
	b.hand = append([]deck.Card{}, cards...)
}

// OrderUp bids when the turned-up suit gives the hand enough trump
func (b *Greedy) OrderUp() bool {
	n := trumpCount(b.hand, b.topCard.Suit)
	b.logger.Debug("considering order up", "topCard", b.topCard, "trump", n)
	return n >= orderUpThreshold
}

// DiscardCard takes the top card and sheds the weakest card in hand
func (b *Greedy) DiscardCard(top deck.Card) deck.Card {
	b.hand = append(b.hand, top)
	trump := top.Suit

	discard := b.hand[0]
	for _, c := range b.hand[1:] {
		if strength(c, trump) < strength(discard, trump) {
			discard = c
		}
	}
	b.hand = removeCard(b.hand, discard)
	b.logger.Debug("discarding", "card", discard)
	return discard
}

// OrderTrump bids when some callable suit gives the hand enough trump
func (b *Greedy) OrderTrump() bool {
	suit, n := b.bestCall(b.topCard.Suit)
	b.logger.Debug("considering call", "suit", suit, "trump", n)
	return n >= orderUpThreshold
}

// CallTrump names the callable suit with the most trump in hand
func (b *Greedy) CallTrump(turnedDown deck.Suit) deck.Suit {
	suit, _ := b.bestCall(turnedDown)
	return suit
}

func (b *Greedy) bestCall(turnedDown deck.Suit) (deck.Suit, int) {
	best, bestCount := deck.Suit(-1), -1
	for _, s := range deck.Suits {
		if s == turnedDown {
			continue
		}
		if n := trumpCount(b.hand, s); n > bestCount {
			best, bestCount = s, n
		}
	}
	return best, bestCount
}

// GoAlone plays alone only with the right bower and a fist of trump
func (b *Greedy) GoAlone() bool {
	if trumpCount(b.hand, b.trump) < 4 {
		return false
	}
	return hasRightBower(b.hand, b.trump)
}

// PlayCard wins the trick with the cheapest winning card, leads its
// strongest card, and sheds its weakest when it cannot win.
func (b *Greedy) PlayCard(view game.TrickView) deck.Card {
	legal := legalCards(b.hand, view)

	var card deck.Card
	if best, any := bestPlayed(view); any {
		led, _ := view.LedSuit()
		card = b.cheapestWinner(legal, led, view.Trump, best)
	} else {
		card = b.strongest(legal, view.Trump)
	}

	b.hand = removeCard(b.hand, card)
	b.logger.Debug("playing", "card", card, "trick", view.Trick)
	return card
}

// cheapestWinner picks the lowest card that still beats the best card
// played, falling back to the weakest card when nothing wins.
func (b *Greedy) cheapestWinner(legal []deck.Card, led, trump deck.Suit, best int) deck.Card {
	var winner deck.Card
	winnerValue := -1
	var weakest deck.Card
	weakestKey := -1

	for _, c := range legal {
		v := c.Value(led, trump)
		if v > best && (winnerValue == -1 || v < winnerValue) {
			winner, winnerValue = c, v
		}
		if key := strength(c, trump); weakestKey == -1 || key < weakestKey {
			weakest, weakestKey = c, key
		}
	}
	if winnerValue != -1 {
		return winner
	}
	return weakest
}

func (b *Greedy) strongest(legal []deck.Card, trump deck.Suit) deck.Card {
	card := legal[0]
	for _, c := range legal[1:] {
		if strength(c, trump) > strength(card, trump) {
			card = c
		}
	}
	return card
}

// Notify tracks the turned-up card and the named trump; decision
// requests carry no context of their own.
func (b *Greedy) Notify(event game.Event) {
	switch e := event.(type) {
	case game.TopCardEvent:
		b.topCard = e.Card
	case game.NewTrumpEvent:
		b.trump = e.Suit
	}
}
