package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// Message represents the base WebSocket message structure. Cards travel
// as two-character shorthand strings on the wire.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// JoinData asks for a seat at the table. Token is checked against the
// server's join token when one is configured.
type JoinData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

// DecisionData answers a decision request. Only the field matching the
// request's kind is consulted: Accept for yes-no questions, Card for
// discards and plays, Suit for trump calls.
type DecisionData struct {
	Kind   DecisionKind `json:"kind"`
	Accept bool         `json:"accept,omitempty"`
	Card   string       `json:"card,omitempty"`
	Suit   string       `json:"suit,omitempty"`
}

// Server → Client Messages

// JoinResponseData confirms or rejects a join
type JoinResponseData struct {
	Success bool   `json:"success"`
	Seat    int    `json:"seat,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorData reports a protocol or game error
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandData delivers a freshly dealt hand
type HandData struct {
	Cards []deck.Card `json:"cards"`
}

// TrickStateData is the wire form of a game.TrickView
type TrickStateData struct {
	Leader string                 `json:"leader"`
	Trump  deck.Suit              `json:"trump"`
	Trick  int                    `json:"trick"`
	Played map[string][]deck.Card `json:"played"`
}

// DecisionRequestData asks the client for one decision. The context
// fields are populated per kind: TopCard for order-up and discards,
// TurnedDown for trump calls, Trick for plays.
type DecisionRequestData struct {
	Kind           DecisionKind    `json:"kind"`
	TopCard        *deck.Card      `json:"topCard,omitempty"`
	TurnedDown     *deck.Suit      `json:"turnedDown,omitempty"`
	Trick          *TrickStateData `json:"trick,omitempty"`
	TimeoutSeconds int             `json:"timeoutSeconds"`
}

// PlayerTimeoutData reports that a decision timed out and which
// fallback the server chose on the player's behalf
type PlayerTimeoutData struct {
	PlayerName     string       `json:"playerName"`
	Kind           DecisionKind `json:"kind"`
	TimeoutSeconds int          `json:"timeoutSeconds"`
}

// GameEventData forwards an engine event. Event is the event's JSON
// body; EventType tells the client which shape to decode.
type GameEventData struct {
	EventType game.EventType  `json:"eventType"`
	Event     json.RawMessage `json:"event"`
}

// GameStartData announces the match ID and seating before the first
// deal
type GameStartData struct {
	MatchID string   `json:"matchId"`
	Players []string `json:"players"`
}

// DecodeGameEvent rebuilds the concrete engine event from its wire
// form. The event set is closed, so an unknown type is a protocol
// error.
func DecodeGameEvent(data GameEventData) (game.Event, error) {
	switch data.EventType {
	case game.EventTypePoints:
		return decodeEvent[game.PointsEvent](data.Event)
	case game.EventTypeDealer:
		return decodeEvent[game.DealerEvent](data.Event)
	case game.EventTypeTopCard:
		return decodeEvent[game.TopCardEvent](data.Event)
	case game.EventTypeOrderedUp:
		return decodeEvent[game.OrderedUpEvent](data.Event)
	case game.EventTypeDeniedUp:
		return decodeEvent[game.DeniedUpEvent](data.Event)
	case game.EventTypeOrderedTrump:
		return decodeEvent[game.OrderedTrumpEvent](data.Event)
	case game.EventTypeDeniedTrump:
		return decodeEvent[game.DeniedTrumpEvent](data.Event)
	case game.EventTypeInvalidSuit:
		return decodeEvent[game.InvalidSuitEvent](data.Event)
	case game.EventTypeNewTrump:
		return decodeEvent[game.NewTrumpEvent](data.Event)
	case game.EventTypeMisdeal:
		return decodeEvent[game.MisdealEvent](data.Event)
	case game.EventTypeLeader:
		return decodeEvent[game.LeaderEvent](data.Event)
	case game.EventTypeTrickStart:
		return decodeEvent[game.TrickStartEvent](data.Event)
	case game.EventTypeCardPlayed:
		return decodeEvent[game.CardPlayedEvent](data.Event)
	case game.EventTypeNewTaker:
		return decodeEvent[game.NewTakerEvent](data.Event)
	case game.EventTypeRoundResults:
		return decodeEvent[game.RoundResultsEvent](data.Event)
	case game.EventTypePenalty:
		return decodeEvent[game.PenaltyEvent](data.Event)
	case game.EventTypeGameResults:
		return decodeEvent[game.GameResultsEvent](data.Event)
	default:
		return nil, fmt.Errorf("unknown game event type %q", data.EventType)
	}
}

// decodeEvent unmarshals a wire event body into its concrete value type
func decodeEvent[T game.Event](raw json.RawMessage) (game.Event, error) {
	var event T
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// NewGameEventMessage wraps an engine event for the wire
func NewGameEventMessage(event game.Event) (*Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return NewMessage(MessageTypeGameEvent, GameEventData{
		EventType: event.Type(),
		Event:     body,
	})
}

// TrickStateFromView converts the engine's snapshot to its wire form
func TrickStateFromView(view game.TrickView) *TrickStateData {
	return &TrickStateData{
		Leader: view.Leader,
		Trump:  view.Trump,
		Trick:  view.Trick,
		Played: view.Played,
	}
}

// View converts the wire form back to an engine snapshot
func (d *TrickStateData) View() game.TrickView {
	return game.TrickView{
		Leader: d.Leader,
		Trump:  d.Trump,
		Trick:  d.Trick,
		Played: d.Played,
	}
}
