// Package bot provides computer players for the euchre engine. Every
// bot implements game.Player, tracks the turned-up card from the event
// stream, and only ever plays legal cards.
package bot

import (
	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// legalCards returns the cards the player may play for the view: the
// cards matching the led effective suit, or the whole hand when the
// player is void or leads.
func legalCards(hand []deck.Card, view game.TrickView) []deck.Card {
	led, ok := view.LedSuit()
	if !ok {
		return hand
	}
	var follow []deck.Card
	for _, c := range hand {
		if c.EffectiveSuit(view.Trump) == led {
			follow = append(follow, c)
		}
	}
	if len(follow) == 0 {
		return hand
	}
	return follow
}

// bestPlayed returns the highest trick value played so far this trick
func bestPlayed(view game.TrickView) (best int, any bool) {
	led, ok := view.LedSuit()
	if !ok {
		return 0, false
	}
	for _, cards := range view.Played {
		if len(cards) <= view.Trick {
			continue
		}
		if v := cards[view.Trick].Value(led, view.Trump); v > best {
			best = v
			any = true
		}
	}
	return best, any
}

// trumpCount counts the cards that play as trump, bowers included
func trumpCount(hand []deck.Card, trump deck.Suit) int {
	n := 0
	for _, c := range hand {
		if c.EffectiveSuit(trump) == trump {
			n++
		}
	}
	return n
}

func hasRightBower(hand []deck.Card, trump deck.Suit) bool {
	for _, c := range hand {
		if c.IsRightBower(trump) {
			return true
		}
	}
	return false
}

// strength ranks a card with no suit led yet: its trick value if the
// card itself were to set the led suit.
func strength(c deck.Card, trump deck.Suit) int {
	return c.Value(c.EffectiveSuit(trump), trump)
}

func removeCard(hand []deck.Card, card deck.Card) []deck.Card {
	for i, c := range hand {
		if c == card {
			return append(hand[:i], hand[i+1:]...)
		}
	}
	return hand
}
