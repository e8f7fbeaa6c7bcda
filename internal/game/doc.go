// Package game implements the euchre rules engine.
//
// The main type is Engine, which drives a full match: dealing, the two
// trump-making phases, trick play, renege detection, and scoring, until
// one team reaches the winning score.
//
// # Basic Usage
//
// Seat four players in two partnerships and play a match:
//
//	team1 := game.NewTeam(alice, bob)
//	team2 := game.NewTeam(carol, dave)
//	engine, err := game.New(rng, team1, team2)
//	if err != nil {
//	    return err
//	}
//	winner, err := engine.Play()
//
// # Deterministic Testing
//
// The engine takes a *rand.Rand for seating and shuffling, and a preset
// deal can be injected for scripted rounds:
//
//	rng := randutil.New(42)
//	d := deck.WithPartition(deck.BalancedPartition())
//	engine, err := game.New(rng, team1, team2, game.WithDeck(d))
//
// # Architecture
//
// Engine delegates to specialized components:
//   - Player: the capability contract for seats (console, bots, network
//     proxies)
//   - Bus: fans broadcast events out to players and auxiliary sinks
//   - RoundWriter: records completed rounds for history and analysis
//   - deck.Deck: provides shuffled 24-card euchre deals
//
// Each round is independent of the last apart from the score and the
// rotating deal, so the engine holds no hidden state between rounds.
package game
