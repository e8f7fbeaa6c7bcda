package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol.
// Game events are forwarded under MessageTypeGameEvent with the event
// type inside the payload.
const (
	// Client to server messages
	MessageTypeJoin     MessageType = "join"
	MessageTypeDecision MessageType = "decision"

	// Server to client messages
	MessageTypeJoinResponse    MessageType = "join_response"
	MessageTypeError           MessageType = "error"
	MessageTypeHand            MessageType = "hand"
	MessageTypeDecisionRequest MessageType = "decision_request"
	MessageTypePlayerTimeout   MessageType = "player_timeout"
	MessageTypeGameEvent       MessageType = "game_event"
	MessageTypeGameStart       MessageType = "game_start"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// DecisionKind names the player decision a request is asking for
type DecisionKind string

// One constant per game.Player decision method
const (
	DecisionOrderUp    DecisionKind = "order_up"
	DecisionDiscard    DecisionKind = "discard"
	DecisionOrderTrump DecisionKind = "order_trump"
	DecisionCallTrump  DecisionKind = "call_trump"
	DecisionGoAlone    DecisionKind = "go_alone"
	DecisionPlayCard   DecisionKind = "play_card"
)
