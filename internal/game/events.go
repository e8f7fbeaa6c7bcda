package game

import "github.com/natelac/euchrego/internal/deck"

// EventType represents a game event type with type safety
type EventType string

// EventType constants for the engine's broadcast notifications. Every
// event is sent to all four seats; players decide what to surface.
const (
	EventTypePoints       EventType = "points"
	EventTypeDealer       EventType = "dealer"
	EventTypeTopCard      EventType = "top_card"
	EventTypeOrderedUp    EventType = "ordered_up"
	EventTypeDeniedUp     EventType = "denied_up"
	EventTypeOrderedTrump EventType = "ordered_trump"
	EventTypeDeniedTrump  EventType = "denied_trump"
	EventTypeInvalidSuit  EventType = "invalid_suit"
	EventTypeNewTrump     EventType = "new_trump"
	EventTypeMisdeal      EventType = "misdeal"
	EventTypeLeader       EventType = "leader"
	EventTypeTrickStart   EventType = "trick_start"
	EventTypeCardPlayed   EventType = "card_played"
	EventTypeNewTaker     EventType = "new_taker"
	EventTypeRoundResults EventType = "round_results"
	EventTypePenalty      EventType = "penalty"
	EventTypeGameResults  EventType = "game_results"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is a notification broadcast by the engine. The set of
// implementations is closed; players dispatch with a type switch.
type Event interface {
	Type() EventType
}

// TeamScore is a team's identity and running point total
type TeamScore struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Points  int      `json:"points"`
}

// PointsEvent announces both teams' totals at the start of a round
type PointsEvent struct {
	Team1 TeamScore `json:"team1"`
	Team2 TeamScore `json:"team2"`
}

func (PointsEvent) Type() EventType { return EventTypePoints }

// DealerEvent announces the dealer for the round about to start
type DealerEvent struct {
	Dealer string `json:"dealer"`
}

func (DealerEvent) Type() EventType { return EventTypeDealer }

// TopCardEvent announces the card turned up from the kitty
type TopCardEvent struct {
	Card deck.Card `json:"card"`
}

func (TopCardEvent) Type() EventType { return EventTypeTopCard }

// OrderedUpEvent announces that a player ordered the top card up
type OrderedUpEvent struct {
	Player string    `json:"player"`
	Card   deck.Card `json:"card"`
}

func (OrderedUpEvent) Type() EventType { return EventTypeOrderedUp }

// DeniedUpEvent announces that a player passed on ordering up
type DeniedUpEvent struct {
	Player string `json:"player"`
}

func (DeniedUpEvent) Type() EventType { return EventTypeDeniedUp }

// OrderedTrumpEvent announces that a player called trump
type OrderedTrumpEvent struct {
	Player string    `json:"player"`
	Suit   deck.Suit `json:"suit"`
}

func (OrderedTrumpEvent) Type() EventType { return EventTypeOrderedTrump }

// DeniedTrumpEvent announces that a player passed on calling trump
type DeniedTrumpEvent struct {
	Player string `json:"player"`
}

func (DeniedTrumpEvent) Type() EventType { return EventTypeDeniedTrump }

// InvalidSuitEvent announces that a player's trump call was rejected and
// the decision will be re-requested
type InvalidSuitEvent struct {
	Player string `json:"player"`
}

func (InvalidSuitEvent) Type() EventType { return EventTypeInvalidSuit }

// NewTrumpEvent announces the trump suit for the round
type NewTrumpEvent struct {
	Suit deck.Suit `json:"suit"`
}

func (NewTrumpEvent) Type() EventType { return EventTypeNewTrump }

// MisdealEvent announces that all four players passed both phases and
// the round is over without scoring
type MisdealEvent struct{}

func (MisdealEvent) Type() EventType { return EventTypeMisdeal }

// LeaderEvent announces the leader of the first trick
type LeaderEvent struct {
	Leader string `json:"leader"`
}

func (LeaderEvent) Type() EventType { return EventTypeLeader }

// TrickStartEvent announces that a trick is starting
type TrickStartEvent struct {
	Trick int `json:"trick"`
}

func (TrickStartEvent) Type() EventType { return EventTypeTrickStart }

// CardPlayedEvent announces a card played during a trick
type CardPlayedEvent struct {
	Player string    `json:"player"`
	Card   deck.Card `json:"card"`
}

func (CardPlayedEvent) Type() EventType { return EventTypeCardPlayed }

// NewTakerEvent announces the winner of the trick just completed
type NewTakerEvent struct {
	Taker string `json:"taker"`
}

func (NewTakerEvent) Type() EventType { return EventTypeNewTaker }

// RoundResultsEvent announces the scoring of a completed round
type RoundResultsEvent struct {
	Team   string `json:"team"`
	Points int    `json:"points"`
	Tricks int    `json:"tricks"`
}

func (RoundResultsEvent) Type() EventType { return EventTypeRoundResults }

// PenaltyEvent announces that a player reneged and which card did it
type PenaltyEvent struct {
	Player string    `json:"player"`
	Card   deck.Card `json:"card"`
}

func (PenaltyEvent) Type() EventType { return EventTypePenalty }

// GameResultsEvent announces the winning team; it is the last event of a
// game
type GameResultsEvent struct {
	Winner TeamScore `json:"winner"`
}

func (GameResultsEvent) Type() EventType { return EventTypeGameResults }

// Subscriber receives every event the engine broadcasts
type Subscriber interface {
	OnEvent(event Event)
}

// Bus fans events out to subscribers. Players are subscribed by the
// engine at seating time; auxiliary sinks (round logs, transports) can
// subscribe alongside them.
type Bus interface {
	Subscribe(sub Subscriber)
	Unsubscribe(sub Subscriber)
	Publish(event Event)
}

type simpleBus struct {
	subscribers []Subscriber
}

// NewBus creates an in-memory synchronous event bus
func NewBus() Bus {
	return &simpleBus{}
}

func (b *simpleBus) Subscribe(sub Subscriber) {
	b.subscribers = append(b.subscribers, sub)
}

func (b *simpleBus) Unsubscribe(sub Subscriber) {
	for i, s := range b.subscribers {
		if s == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			break
		}
	}
}

func (b *simpleBus) Publish(event Event) {
	for _, sub := range b.subscribers {
		sub.OnEvent(event)
	}
}

// playerSink adapts a Player's Notify method to the Subscriber interface
type playerSink struct {
	player Player
}

func (s playerSink) OnEvent(event Event) {
	s.player.Notify(event)
}
