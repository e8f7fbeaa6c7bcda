package game

import "fmt"

// Team pairs two players into a partnership and accumulates their score.
// A player belongs to exactly one team for the life of a game; points are
// only ever added by the engine's scoring step.
type Team struct {
	players [2]Player
	points  int
}

// NewTeam creates a partnership of two players
func NewTeam(a, b Player) *Team {
	return &Team{players: [2]Player{a, b}}
}

// Name identifies the team by its members ("Alice/Bob")
func (t *Team) Name() string {
	return fmt.Sprintf("%s/%s", t.players[0].Name(), t.players[1].Name())
}

// Players returns both members of the team
func (t *Team) Players() []Player {
	return []Player{t.players[0], t.players[1]}
}

// Has returns true if p is a member of the team
func (t *Team) Has(p Player) bool {
	return t.players[0] == p || t.players[1] == p
}

// Teammate returns the partner of p, or nil if p is not on the team
func (t *Team) Teammate(p Player) Player {
	switch p {
	case t.players[0]:
		return t.players[1]
	case t.players[1]:
		return t.players[0]
	default:
		return nil
	}
}

// Points returns the team's current score
func (t *Team) Points() int {
	return t.points
}

func (t *Team) addPoints(n int) {
	t.points += n
}
