package game

import "github.com/natelac/euchrego/internal/deck"

// TrickView is the immutable snapshot a player receives when asked for a
// card. The engine builds a fresh copy per request; mutating it has no
// effect on the round.
type TrickView struct {
	// Leader is the name of the player who leads the current trick
	Leader string
	// Trump is the suit named by the maker
	Trump deck.Suit
	// Trick is the index of the current trick, 0 through 4
	Trick int
	// Played maps each active player's name to the cards they have
	// played this round, ordered by trick. The current trick's cards
	// appear at index Trick for players who have already acted.
	Played map[string][]deck.Card
}

// LedCard returns the card led for the current trick. ok is false when
// the viewing player leads and no card has been played yet.
func (v TrickView) LedCard() (card deck.Card, ok bool) {
	cards := v.Played[v.Leader]
	if len(cards) <= v.Trick {
		return deck.Card{}, false
	}
	return cards[v.Trick], true
}

// LedSuit returns the effective suit led for the current trick
func (v TrickView) LedSuit() (suit deck.Suit, ok bool) {
	card, ok := v.LedCard()
	if !ok {
		return 0, false
	}
	return card.EffectiveSuit(v.Trump), true
}

// Player is the capability contract the engine drives. Decision methods
// block until the player answers; the engine issues exactly one
// outstanding decision at a time and validates every answer it can.
// Concrete players (console, bots, network proxies) live outside this
// package and are selected at composition time.
type Player interface {
	// Name identifies the player at the table. Names must be unique
	// across the four seats; the engine rejects duplicate names.
	Name() string

	// UpdateHand delivers a freshly dealt five-card hand
	UpdateHand(cards []deck.Card)

	// OrderUp answers whether the player orders the top card up
	OrderUp() bool

	// DiscardCard is called only on the dealer after an order-up: the
	// dealer takes the top card into hand and must return exactly one
	// card for the kitty.
	DiscardCard(top deck.Card) deck.Card

	// OrderTrump answers whether the player wants to call trump after
	// everyone passed on ordering up
	OrderTrump() bool

	// CallTrump names a trump suit. The named suit must be canonical
	// and differ from the turned-down suit; the engine re-requests
	// until the answer is valid.
	CallTrump(turnedDown deck.Suit) deck.Suit

	// GoAlone is asked of the maker before trick play begins
	GoAlone() bool

	// PlayCard chooses a card for the current trick
	PlayCard(view TrickView) deck.Card

	// Notify delivers a broadcast game event. Implementations dispatch
	// on the concrete event type and may ignore events about
	// themselves.
	Notify(event Event)
}
