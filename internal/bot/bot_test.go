package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
	"github.com/natelac/euchrego/internal/randutil"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func ledView(trump deck.Suit, led string) game.TrickView {
	return game.TrickView{
		Leader: "leader",
		Trump:  trump,
		Trick:  0,
		Played: map[string][]deck.Card{"leader": deck.MustParseCards(led)},
	}
}

func TestGreedyFollowsSuit(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("KD", "AH", "9S"))

	card := b.PlayCard(ledView(deck.Clubs, "9D"))
	assert.Equal(t, deck.MustParseCard("KD"), card, "must follow the led suit")
}

func TestGreedyTreatsLeftBowerAsTrump(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("JS", "AH", "9H"))

	// Clubs led under club trump: JS plays as a club and must follow.
	card := b.PlayCard(ledView(deck.Clubs, "9C"))
	assert.Equal(t, deck.MustParseCard("JS"), card)
}

func TestGreedyWinsCheaply(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("QD", "KD", "AH"))

	// Both diamonds beat the led nine; the queen is the cheaper winner.
	card := b.PlayCard(ledView(deck.Clubs, "9D"))
	assert.Equal(t, deck.MustParseCard("QD"), card)
}

func TestGreedyShedsWeakestWhenBeaten(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("JD", "QD", "AH"))

	card := b.PlayCard(ledView(deck.Clubs, "AD"))
	assert.Equal(t, deck.MustParseCard("JD"), card)
}

func TestGreedyLeadsStrongest(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("9S", "JC", "AH"))

	view := game.TrickView{Leader: "g", Trump: deck.Clubs, Trick: 0, Played: map[string][]deck.Card{}}
	card := b.PlayCard(view)
	assert.Equal(t, deck.MustParseCard("JC"), card, "the right bower is the strongest lead")
}

func TestGreedyOrderUpThreshold(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.Notify(game.TopCardEvent{Card: deck.MustParseCard("9C")})

	b.UpdateHand(deck.MustParseCards("JC", "JS", "AC", "9H", "1D"))
	assert.True(t, b.OrderUp(), "both bowers and the ace make three trump")

	b.UpdateHand(deck.MustParseCards("KC", "QC", "AH", "9H", "1D"))
	assert.False(t, b.OrderUp(), "two trump is not enough")
}

func TestGreedyDiscardsWeakest(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("JC", "AC", "KC", "QC", "AH"))

	discard := b.DiscardCard(deck.MustParseCard("1C"))
	assert.Equal(t, deck.MustParseCard("AH"), discard, "the off-suit ace is the weakest card in an all-trump hand")
	assert.Len(t, b.hand, 5)
}

func TestGreedyCallTrumpAvoidsTurnedDown(t *testing.T) {
	b := NewGreedy("g", randutil.New(1), testLogger())
	b.UpdateHand(deck.MustParseCards("JC", "AC", "KC", "QC", "9C"))

	// Clubs were turned down, so the all-club hand must call spades,
	// where JC still plays as the left bower.
	call := b.CallTrump(deck.Clubs)
	assert.Equal(t, deck.Spades, call)
}

func playMatch(t *testing.T, players [4]game.Player, maxRounds int) (*game.Team, *game.MemoryRoundWriter) {
	t.Helper()

	team1 := game.NewTeam(players[0], players[1])
	team2 := game.NewTeam(players[2], players[3])
	writer := &game.MemoryRoundWriter{}

	engine, err := game.New(randutil.New(99), team1, team2,
		game.WithRoundWriter(writer),
		game.WithMaxRounds(maxRounds),
		game.WithLogger(testLogger()),
	)
	require.NoError(t, err)

	winner, err := engine.Play()
	require.NoError(t, err)
	return winner, writer
}

func TestGreedyMatchCompletes(t *testing.T) {
	rng := randutil.New(7)
	logger := testLogger()
	players := [4]game.Player{
		NewGreedy("g1", rng, logger),
		NewGreedy("g2", rng, logger),
		NewGreedy("g3", rng, logger),
		NewGreedy("g4", rng, logger),
	}

	winner, writer := playMatch(t, players, 500)
	require.NotNil(t, winner, "greedy bots must finish a match")
	assert.GreaterOrEqual(t, winner.Points(), game.DefaultWinningScore)

	for _, rec := range writer.Records {
		assert.Empty(t, rec.Renegers, "greedy bots never renege")
	}
}

func TestRandomMatchCompletes(t *testing.T) {
	rng := randutil.New(11)
	logger := testLogger()
	players := [4]game.Player{
		NewRandom("r1", rng, logger),
		NewRandom("r2", rng, logger),
		NewRandom("r3", rng, logger),
		NewRandom("r4", rng, logger),
	}

	winner, writer := playMatch(t, players, 2000)
	require.NotNil(t, winner, "random bots must finish a match")

	for _, rec := range writer.Records {
		assert.Empty(t, rec.Renegers, "random bots pick among legal cards only")
	}
}

func TestMixedMatchCompletes(t *testing.T) {
	rng := randutil.New(3)
	logger := testLogger()
	players := [4]game.Player{
		NewGreedy("g1", rng, logger),
		NewRandom("r1", rng, logger),
		NewGreedy("g2", rng, logger),
		NewRandom("r2", rng, logger),
	}

	winner, _ := playMatch(t, players, 2000)
	require.NotNil(t, winner)
}
