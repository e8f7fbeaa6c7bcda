package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/natelac/euchrego/internal/deck"
)

// DefaultWinningScore is the point total that ends a match
const DefaultWinningScore = 10

// Engine sequences a euchre match: dealing, the order-up and call-trump
// phases, trick play, renege detection, scoring, and dealer rotation. It
// is strictly turn-based: one outstanding player decision at a time, and
// the engine is the sole writer of round state.
type Engine struct {
	deck         *deck.Deck
	team1, team2 *Team
	table        []Player // index 3 is the current dealer
	playOrder    []Player // index 0 is the current trick leader
	rng          *rand.Rand
	logger       *log.Logger
	bus          Bus
	writer       RoundWriter
	winningScore int
	maxRounds    int
	round        int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine's logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.WithPrefix("engine")
	}
}

// WithDeck substitutes the engine's deck, typically one carrying a fixed
// partition for reproducible games
func WithDeck(d *deck.Deck) Option {
	return func(e *Engine) {
		e.deck = d
	}
}

// WithRoundWriter sets the destination for per-round log records
func WithRoundWriter(w RoundWriter) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

// WithWinningScore overrides the 10-point match target
func WithWinningScore(score int) Option {
	return func(e *Engine) {
		e.winningScore = score
	}
}

// WithMaxRounds caps the number of rounds played. Play returns a nil
// winner when the cap is reached; zero means no cap. Intended for
// scripted fixtures where no team reaches the winning score.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		e.maxRounds = n
	}
}

// WithBus substitutes the event bus, letting callers attach auxiliary
// sinks before play begins
func WithBus(bus Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// New seats the two partnerships around a table and prepares a match.
// Partners always sit opposite each other (seats 0↔2 and 1↔3); which team
// takes the even seats and the order within each team are random. It is
// an error for the teams to share a player, to hold fewer than two
// distinct players each, or for two players to share a name.
func New(rng *rand.Rand, team1, team2 *Team, opts ...Option) (*Engine, error) {
	e := &Engine{
		team1:        team1,
		team2:        team2,
		rng:          rng,
		logger:       log.New(io.Discard),
		bus:          NewBus(),
		writer:       noopRoundWriter{},
		winningScore: DefaultWinningScore,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.deck == nil {
		e.deck = deck.New(rng)
	}

	if err := e.seatPlayers(); err != nil {
		return nil, err
	}

	for _, p := range e.table {
		e.bus.Subscribe(playerSink{p})
	}
	return e, nil
}

// seatPlayers randomizes the seating while keeping partners opposite:
// one team fills seats 0 and 2, the other seats 1 and 3.
func (e *Engine) seatPlayers() error {
	t1 := e.team1.Players()
	t2 := e.team2.Players()

	names := make(map[string]bool)
	for _, p := range append(t1, t2...) {
		if p == nil {
			return fmt.Errorf("euchre requires 4 players: team has an empty seat")
		}
		if names[p.Name()] {
			return fmt.Errorf("duplicate player name %q", p.Name())
		}
		names[p.Name()] = true
	}
	if len(names) != 4 {
		return fmt.Errorf("euchre requires 4 distinct players, have %d", len(names))
	}

	e.rng.Shuffle(len(t1), func(i, j int) { t1[i], t1[j] = t1[j], t1[i] })
	e.rng.Shuffle(len(t2), func(i, j int) { t2[i], t2[j] = t2[j], t2[i] })
	if e.rng.IntN(2) == 1 {
		t1, t2 = t2, t1
	}

	e.table = []Player{t1[0], t2[0], t1[1], t2[1]}
	e.playOrder = append([]Player{}, e.table...)
	return nil
}

// Table returns the current table order, dealer last
func (e *Engine) Table() []Player {
	return append([]Player{}, e.table...)
}

// Bus returns the engine's event bus
func (e *Engine) Bus() Bus {
	return e.bus
}

// Play runs rounds until a team reaches the winning score and returns
// the winning team. The match ends the instant a team reaches the
// target; no further round is dealt.
func (e *Engine) Play() (*Team, error) {
	if len(e.table) != 4 {
		return nil, fmt.Errorf("euchre requires 4 seated players, have %d", len(e.table))
	}

	for {
		if winner := e.winner(); winner != nil {
			e.logger.Info("game over", "winner", winner.Name(), "points", winner.Points())
			e.bus.Publish(GameResultsEvent{Winner: e.score(winner)})
			return winner, nil
		}
		if e.maxRounds > 0 && e.round >= e.maxRounds {
			return nil, nil
		}

		e.round++
		e.bus.Publish(PointsEvent{Team1: e.score(e.team1), Team2: e.score(e.team2)})
		e.bus.Publish(DealerEvent{Dealer: e.dealer().Name()})
		e.logger.Debug("round start", "round", e.round, "dealer", e.dealer().Name())

		rec := e.newRoundRecord()
		rs, makerSelected := e.dealPhase(rec)
		if makerSelected {
			e.playTricks(rs, rec)
		} else {
			rec.Misdeal = true
			e.logger.Info("misdeal", "round", e.round)
			e.bus.Publish(MisdealEvent{})
		}

		rec.Points = map[string]int{
			e.team1.Name(): e.team1.Points(),
			e.team2.Name(): e.team2.Points(),
		}
		if err := e.writer.WriteRound(rec); err != nil {
			return nil, fmt.Errorf("writing round %d log: %w", e.round, err)
		}

		e.rotateDealer()
	}
}

// roundState is the engine-owned working state of a single round. It is
// rebuilt from scratch every round and never handed to players; decision
// calls receive copies only.
type roundState struct {
	topCard deck.Card
	kitty   []deck.Card
	trump   deck.Suit
	maker   Player
	alone   bool
	// excluded is the maker's partner when going alone, else nil
	excluded Player
	// played maps player name to cards played this round, by trick
	played map[string][]deck.Card
	// takers[j] won trick j; leaders[j] led it
	takers  []Player
	leaders []Player
}

// dealPhase shuffles, deals, and drives the order-up and call-trump
// sub-phases. It returns the round state and whether a maker was
// selected; all four passing twice is a misdeal.
func (e *Engine) dealPhase(rec *RoundRecord) (*roundState, bool) {
	e.deck.Shuffle()
	p := e.deck.Deal()

	rs := &roundState{
		kitty:  p.Kitty[1:],
		played: make(map[string][]deck.Card),
	}
	rs.topCard = p.Kitty[0]

	for i, pl := range e.playOrder {
		hand := p.Hands[i]
		pl.UpdateHand(hand)
	}
	rec.TopCard = rs.topCard

	e.bus.Publish(TopCardEvent{Card: rs.topCard})
	e.logger.Debug("dealt", "topCard", rs.topCard)

	madeTrump := e.orderUpPhase(rs)
	if !madeTrump {
		madeTrump = e.callTrumpPhase(rs)
	}
	// Recorded after the order-up exchange so the dealer's discard, if
	// any, shows up in the kitty. The picked-up top card is logged
	// separately.
	rec.Kitty = append([]deck.Card{}, rs.kitty...)
	if madeTrump {
		rec.setMaker(rs)
	}
	return rs, madeTrump
}

// orderUpPhase asks each player in table order whether to order the top
// card up. The first yes fixes trump, makes that player the maker, and
// has the dealer exchange a discard for the top card. Returns true if
// anyone ordered up.
func (e *Engine) orderUpPhase(rs *roundState) bool {
	for _, pl := range e.table {
		if !pl.OrderUp() {
			e.bus.Publish(DeniedUpEvent{Player: pl.Name()})
			continue
		}

		rs.maker = pl
		rs.trump = rs.topCard.Suit
		e.logger.Info("ordered up", "maker", pl.Name(), "trump", rs.trump)
		e.bus.Publish(OrderedUpEvent{Player: pl.Name(), Card: rs.topCard})
		e.bus.Publish(NewTrumpEvent{Suit: rs.trump})

		// The dealer takes the top card into hand (six cards, briefly)
		// and returns exactly one to the kitty.
		discard := e.dealer().DiscardCard(rs.topCard)
		rs.kitty = append(rs.kitty, discard)
		return true
	}
	return false
}

// callTrumpPhase asks each player in table order whether to call trump.
// A caller must name a canonical suit other than the turned-down top
// card's suit; invalid answers are re-requested until valid. Returns
// true if anyone called.
func (e *Engine) callTrumpPhase(rs *roundState) bool {
	for _, pl := range e.table {
		if !pl.OrderTrump() {
			e.bus.Publish(DeniedTrumpEvent{Player: pl.Name()})
			continue
		}

		call := pl.CallTrump(rs.topCard.Suit)
		for !e.validTrump(call, rs.topCard.Suit) {
			e.logger.Warn("invalid trump call", "player", pl.Name(), "call", call)
			e.bus.Publish(InvalidSuitEvent{Player: pl.Name()})
			call = pl.CallTrump(rs.topCard.Suit)
		}

		rs.maker = pl
		rs.trump = call
		e.logger.Info("called trump", "maker", pl.Name(), "trump", call)
		e.bus.Publish(OrderedTrumpEvent{Player: pl.Name(), Suit: call})
		e.bus.Publish(NewTrumpEvent{Suit: call})
		return true
	}
	return false
}

func (e *Engine) validTrump(call, turnedDown deck.Suit) bool {
	return call.Valid() && call != turnedDown
}

// playTricks asks the maker about going alone and then plays the five
// tricks, finishing with renege detection and either penalty or scoring.
func (e *Engine) playTricks(rs *roundState, rec *RoundRecord) {
	rs.alone = rs.maker.GoAlone()
	if rs.alone {
		rs.excluded = e.teamOf(rs.maker).Teammate(rs.maker)
		e.logger.Info("going alone", "maker", rs.maker.Name(), "sitting out", rs.excluded.Name())
	}
	rec.Alone = rs.alone

	tricksTaken := make(map[string]int)
	for _, pl := range e.playOrder {
		if pl == rs.excluded {
			continue
		}
		rs.played[pl.Name()] = []deck.Card{}
		tricksTaken[pl.Name()] = 0
	}

	// The player left of the dealer leads the first trick; thereafter
	// the previous trick's taker leads. A sitting-out partner never
	// leads, so the lead passes one seat further when they would.
	taker := e.table[0]
	if taker == rs.excluded {
		taker = e.table[1]
	}
	e.bus.Publish(LeaderEvent{Leader: taker.Name()})

	for j := 0; j < 5; j++ {
		rs.leaders = append(rs.leaders, taker)
		e.rotatePlayOrder(taker)
		rec.TrickOrders = append(rec.TrickOrders, e.activeNames(rs))
		e.bus.Publish(TrickStartEvent{Trick: j})

		for _, pl := range e.playOrder {
			if pl == rs.excluded {
				continue
			}
			card := pl.PlayCard(e.trickView(rs, taker, j))
			rs.played[pl.Name()] = append(rs.played[pl.Name()], card)
			e.bus.Publish(CardPlayedEvent{Player: pl.Name(), Card: card})
		}

		taker = e.resolveTrick(rs, taker, j)
		tricksTaken[taker.Name()]++
		rs.takers = append(rs.takers, taker)
		e.logger.Debug("trick taken", "trick", j, "taker", taker.Name())
		e.bus.Publish(NewTakerEvent{Taker: taker.Name()})
	}

	rec.Played = copyPlayed(rs.played)
	rec.Takers = playerNames(rs.takers)

	renegers := e.checkForReneges(rs)
	if len(renegers) > 0 {
		rec.Renegers = playerNames(renegers)
		e.penalize(renegers, rs)
	} else {
		e.scoreRound(tricksTaken, rs)
	}
}

// trickView snapshots the round for one PlayCard request. Players only
// ever see copies of the engine's state.
func (e *Engine) trickView(rs *roundState, leader Player, trick int) TrickView {
	return TrickView{
		Leader: leader.Name(),
		Trump:  rs.trump,
		Trick:  trick,
		Played: copyPlayed(rs.played),
	}
}

// resolveTrick picks the winner of trick j: the active player whose card
// has the highest value relative to the led effective suit and trump.
// Values within a trick are strictly ordered, so there is never a tie.
func (e *Engine) resolveTrick(rs *roundState, leader Player, j int) Player {
	led := rs.played[leader.Name()][j].EffectiveSuit(rs.trump)

	var taker Player
	best := -1
	for _, pl := range e.playOrder {
		if pl == rs.excluded {
			continue
		}
		if v := rs.played[pl.Name()][j].Value(led, rs.trump); v > best {
			best = v
			taker = pl
		}
	}
	return taker
}

// checkForReneges replays the round in hindsight. For each trick, a
// player reneged if the suffix of their play list from that trick onward
// holds a card matching the led effective suit but the card they
// actually played at that trick does not match. Follow-suit legality can
// only be judged retrospectively because hands are private at play time.
func (e *Engine) checkForReneges(rs *roundState) []Player {
	var renegers []Player

	for j := 0; j < 5; j++ {
		leader := rs.leaders[j]
		led := rs.played[leader.Name()][j].EffectiveSuit(rs.trump)

		for _, pl := range e.table {
			if pl == rs.excluded {
				continue
			}
			suffix := rs.played[pl.Name()][j:]
			holdsLed := false
			for _, card := range suffix {
				if card.EffectiveSuit(rs.trump) == led {
					holdsLed = true
					break
				}
			}
			if holdsLed && suffix[0].EffectiveSuit(rs.trump) != led {
				e.logger.Info("renege detected", "player", pl.Name(), "trick", j, "card", suffix[0])
				e.bus.Publish(PenaltyEvent{Player: pl.Name(), Card: suffix[0]})
				if !containsPlayer(renegers, pl) {
					renegers = append(renegers, pl)
				}
			}
		}
	}
	return renegers
}

// penalize replaces normal scoring after a renege. Each reneging team is
// penalized once: its opponents receive 2 points, or 4 if the round was
// played alone. If both teams reneged, nobody scores.
func (e *Engine) penalize(renegers []Player, rs *roundState) {
	guilty := make(map[*Team]bool)
	for _, pl := range renegers {
		guilty[e.teamOf(pl)] = true
	}
	if guilty[e.team1] && guilty[e.team2] {
		e.logger.Info("both teams reneged, no penalty points")
		return
	}

	points := 2
	if rs.alone {
		points = 4
	}
	for team := range guilty {
		opponent := e.opponentOf(team)
		opponent.addPoints(points)
		e.logger.Info("renege penalty", "against", team.Name(), "awarded", opponent.Name(), "points", points)
	}
}

// scoreRound applies the euchre scoring table: march alone 4, march 2,
// 3-4 tricks 1, and a euchred maker gives the defenders 2.
func (e *Engine) scoreRound(tricksTaken map[string]int, rs *roundState) {
	teamTricks := map[*Team]int{e.team1: 0, e.team2: 0}
	for _, pl := range e.table {
		if pl == rs.excluded {
			continue
		}
		teamTricks[e.teamOf(pl)] += tricksTaken[pl.Name()]
	}

	takingTeam := e.team1
	if teamTricks[e.team2] > teamTricks[e.team1] {
		takingTeam = e.team2
	}
	taken := teamTricks[takingTeam]

	points := 1
	if takingTeam.Has(rs.maker) {
		switch {
		case rs.alone && taken == 5:
			points = 4
		case taken == 5:
			points = 2
		}
	} else {
		// Maker euchred
		points = 2
	}

	takingTeam.addPoints(points)
	e.logger.Info("round scored", "team", takingTeam.Name(), "tricks", taken, "points", points)
	e.bus.Publish(RoundResultsEvent{Team: takingTeam.Name(), Points: points, Tricks: taken})
}

func (e *Engine) dealer() Player {
	return e.table[3]
}

// rotateDealer moves the current dealer to the back of the table order
// so the player on their left deals next, and realigns the play order.
func (e *Engine) rotateDealer() {
	e.table = append(e.table[1:], e.table[0])
	e.playOrder = append([]Player{}, e.table...)
}

// rotatePlayOrder rotates the play order until leader is first
func (e *Engine) rotatePlayOrder(leader Player) {
	for e.playOrder[0] != leader {
		e.playOrder = append(e.playOrder[1:], e.playOrder[0])
	}
}

func (e *Engine) activeNames(rs *roundState) []string {
	var names []string
	for _, pl := range e.playOrder {
		if pl == rs.excluded {
			continue
		}
		names = append(names, pl.Name())
	}
	return names
}

func (e *Engine) teamOf(p Player) *Team {
	if e.team1.Has(p) {
		return e.team1
	}
	return e.team2
}

func (e *Engine) opponentOf(t *Team) *Team {
	if t == e.team1 {
		return e.team2
	}
	return e.team1
}

func (e *Engine) winner() *Team {
	if e.team1.Points() >= e.winningScore {
		return e.team1
	}
	if e.team2.Points() >= e.winningScore {
		return e.team2
	}
	return nil
}

func (e *Engine) score(t *Team) TeamScore {
	return TeamScore{
		Name:    t.Name(),
		Players: playerNames(t.Players()),
		Points:  t.Points(),
	}
}

func copyPlayed(played map[string][]deck.Card) map[string][]deck.Card {
	out := make(map[string][]deck.Card, len(played))
	for name, cards := range played {
		out[name] = append([]deck.Card{}, cards...)
	}
	return out
}

func playerNames(players []Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name()
	}
	return names
}

func containsPlayer(players []Player, p Player) bool {
	for _, q := range players {
		if q == p {
			return true
		}
	}
	return false
}
