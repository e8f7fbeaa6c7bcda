package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

func newTestSeat(t *testing.T) (*Model, *ConsolePlayer) {
	t.Helper()
	logger := log.New(io.Discard)
	model := NewModelWithOptions(logger, true)
	return model, NewConsolePlayer("you", model, logger)
}

// feed queues inputs, waiting out the one-slot channel between lines
func feed(model *Model, inputs ...string) {
	go func() {
		for _, input := range inputs {
			for model.InjectInput(input) != nil {
				time.Sleep(time.Millisecond)
			}
		}
	}()
}

func logContains(model *Model, substr string) bool {
	for _, entry := range model.GetCapturedLog() {
		if strings.Contains(entry, substr) {
			return true
		}
	}
	return false
}

func TestConsolePlayerAnswersYesNo(t *testing.T) {
	model, player := newTestSeat(t)

	feed(model, "maybe", "y")
	assert.True(t, player.OrderUp())
	assert.True(t, logContains(model, "Answer y or n"))

	feed(model, "pass")
	assert.False(t, player.OrderTrump())

	feed(model, "no")
	assert.False(t, player.GoAlone())
}

func TestConsolePlayerPlaysByNumber(t *testing.T) {
	model, player := newTestSeat(t)
	player.UpdateHand(deck.MustParseCards("9C", "1S", "JH", "QD", "KC"))

	feed(model, "2")
	card := player.PlayCard(game.TrickView{
		Leader: "you",
		Trump:  deck.Spades,
		Played: map[string][]deck.Card{},
	})
	assert.Equal(t, deck.MustParseCard("1S"), card)
	assert.Len(t, player.hand, 4)
}

func TestConsolePlayerMustFollowSuit(t *testing.T) {
	model, player := newTestSeat(t)
	player.UpdateHand(deck.MustParseCards("9C", "1S", "JH", "QD", "KC"))

	view := game.TrickView{
		Leader: "lefty",
		Trump:  deck.Spades,
		Trick:  0,
		Played: map[string][]deck.Card{
			"lefty": deck.MustParseCards("AH"),
		},
	}

	// The club does not follow the heart lead; the jack of hearts does
	feed(model, "1", "jh")
	card := player.PlayCard(view)
	assert.Equal(t, deck.MustParseCard("JH"), card)
	assert.True(t, logContains(model, "doesn't follow suit"))
}

func TestConsolePlayerLeftBowerFollowsTrump(t *testing.T) {
	model, player := newTestSeat(t)
	player.UpdateHand(deck.MustParseCards("JH", "9C", "1C", "QC", "KC"))

	view := game.TrickView{
		Leader: "lefty",
		Trump:  deck.Diamonds,
		Trick:  0,
		Played: map[string][]deck.Card{
			"lefty": deck.MustParseCards("AD"),
		},
	}

	// Under diamond trump the jack of hearts is the only diamond held
	feed(model, "9c", "jh")
	card := player.PlayCard(view)
	assert.Equal(t, deck.MustParseCard("JH"), card)
}

func TestConsolePlayerDiscardTakesTopCard(t *testing.T) {
	model, player := newTestSeat(t)
	player.UpdateHand(deck.MustParseCards("9C", "1S", "JH", "QD", "KC"))

	feed(model, "qd")
	card := player.DiscardCard(deck.MustParseCard("AC"))
	assert.Equal(t, deck.MustParseCard("QD"), card)
	assert.Len(t, player.hand, 5, "the hand keeps five cards after the exchange")
	assert.Contains(t, player.hand, deck.MustParseCard("AC"))
}

func TestConsolePlayerCallTrumpRejectsTurnedDown(t *testing.T) {
	model, player := newTestSeat(t)

	feed(model, "clubs", "x", "hearts")
	suit := player.CallTrump(deck.Clubs)
	assert.Equal(t, deck.Hearts, suit)
	assert.True(t, logContains(model, "was turned down"))
}

func TestConsolePlayerRendersEvents(t *testing.T) {
	model, player := newTestSeat(t)

	player.Notify(game.DealerEvent{Dealer: "you"})
	player.Notify(game.TopCardEvent{Card: deck.MustParseCard("JC")})
	player.Notify(game.NewTrumpEvent{Suit: deck.Hearts})
	player.Notify(game.CardPlayedEvent{Player: "lefty", Card: deck.MustParseCard("AH")})
	player.Notify(game.NewTakerEvent{Taker: "you"})
	player.Notify(game.GameResultsEvent{Winner: game.TeamScore{Name: "A", Points: 10}})

	require.True(t, logContains(model, "You deal"))
	assert.True(t, logContains(model, "Trump is ♥ Hearts"))
	assert.True(t, logContains(model, "lefty plays"))
	assert.True(t, logContains(model, "You take the trick"))
	assert.True(t, logContains(model, "Team A wins"))
	assert.Equal(t, deck.Hearts, player.trump)
}

func TestModelCapturesLogInTestMode(t *testing.T) {
	model := NewModelWithOptions(log.New(io.Discard), true)
	model.AddLogEntry("first")
	model.AddLogEntry("second")
	assert.Equal(t, []string{"first", "second"}, model.GetCapturedLog())
}
