package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// sender delivers messages to one remote client
type sender interface {
	Send(msg *Message) error
}

type decisionResponse struct {
	requestID string
	data      DecisionData
}

// NetworkPlayer proxies the game.Player contract to a remote client
// over the message protocol. Every decision is a request-response pair
// correlated by request ID; invalid answers are re-requested a bounded
// number of times, and a timeout or exhausted retries resolves to a
// safe fallback so one silent client cannot stall the table.
type NetworkPlayer struct {
	name      string
	send      sender
	logger    *log.Logger
	clock     quartz.Clock
	timeout   time.Duration
	retries   int
	responses chan decisionResponse

	// OnTimeout, when set, is told about decisions the server resolved
	// on the player's behalf
	OnTimeout func(data PlayerTimeoutData)

	mu        sync.Mutex
	pendingID string
	seq       uint64

	hand    []deck.Card
	topCard deck.Card
}

// NewNetworkPlayer creates a network player bound to one client
func NewNetworkPlayer(name string, send sender, logger *log.Logger, clock quartz.Clock, timeout time.Duration, retries int) *NetworkPlayer {
	return &NetworkPlayer{
		name:      name,
		send:      send,
		logger:    logger.WithPrefix("network-player").With("player", name),
		clock:     clock,
		timeout:   timeout,
		retries:   retries,
		responses: make(chan decisionResponse, 1),
	}
}

// Name implements game.Player
func (p *NetworkPlayer) Name() string { return p.name }

// UpdateHand stores the hand for answer validation and forwards it to
// the client. Hands are private: they never ride the broadcast stream.
func (p *NetworkPlayer) UpdateHand(cards []deck.Card) {
	p.hand = append([]deck.Card{}, cards...)

	msg, err := NewMessage(MessageTypeHand, HandData{Cards: p.hand})
	if err == nil {
		if err := p.send.Send(msg); err != nil {
			p.logger.Error("failed to send hand", "error", err)
		}
	}
}

// OrderUp implements game.Player
func (p *NetworkPlayer) OrderUp() bool {
	top := p.topCard
	resp, ok := p.request(DecisionRequestData{Kind: DecisionOrderUp, TopCard: &top}, acceptAny)
	return ok && resp.Accept
}

// DiscardCard implements game.Player. The fallback returns the top
// card, leaving the hand as dealt.
func (p *NetworkPlayer) DiscardCard(top deck.Card) deck.Card {
	p.hand = append(p.hand, top)

	resp, ok := p.request(DecisionRequestData{Kind: DecisionDiscard, TopCard: &top}, p.validCard)
	if !ok {
		p.removeCard(top)
		return top
	}
	card, _ := deck.ParseCard(resp.Card)
	p.removeCard(card)
	return card
}

// OrderTrump implements game.Player
func (p *NetworkPlayer) OrderTrump() bool {
	resp, ok := p.request(DecisionRequestData{Kind: DecisionOrderTrump}, acceptAny)
	return ok && resp.Accept
}

// CallTrump implements game.Player. The fallback names the first
// callable suit, so the engine never sees an invalid call from a
// timed-out client.
func (p *NetworkPlayer) CallTrump(turnedDown deck.Suit) deck.Suit {
	valid := func(data DecisionData) bool {
		suit, err := deck.ParseSuit(data.Suit)
		return err == nil && suit != turnedDown
	}

	resp, ok := p.request(DecisionRequestData{Kind: DecisionCallTrump, TurnedDown: &turnedDown}, valid)
	if !ok {
		for _, s := range deck.Suits {
			if s != turnedDown {
				return s
			}
		}
	}
	suit, _ := deck.ParseSuit(resp.Suit)
	return suit
}

// GoAlone implements game.Player
func (p *NetworkPlayer) GoAlone() bool {
	resp, ok := p.request(DecisionRequestData{Kind: DecisionGoAlone}, acceptAny)
	return ok && resp.Accept
}

// PlayCard implements game.Player. Answers must name a card in hand
// that follows suit when the hand can; the fallback plays the first
// legal card.
func (p *NetworkPlayer) PlayCard(view game.TrickView) deck.Card {
	valid := func(data DecisionData) bool {
		card, err := deck.ParseCard(data.Card)
		if err != nil || !p.holds(card) {
			return false
		}
		led, ok := view.LedSuit()
		if !ok {
			return true
		}
		if card.EffectiveSuit(view.Trump) == led {
			return true
		}
		return !p.holdsSuit(led, view.Trump)
	}

	resp, ok := p.request(DecisionRequestData{Kind: DecisionPlayCard, Trick: TrickStateFromView(view)}, valid)
	if !ok {
		card := p.firstLegal(view)
		p.removeCard(card)
		return card
	}
	card, _ := deck.ParseCard(resp.Card)
	p.removeCard(card)
	return card
}

// Notify forwards every broadcast event to the client
func (p *NetworkPlayer) Notify(event game.Event) {
	if e, ok := event.(game.TopCardEvent); ok {
		p.topCard = e.Card
	}

	msg, err := NewGameEventMessage(event)
	if err != nil {
		p.logger.Error("failed to encode event", "type", event.Type(), "error", err)
		return
	}
	if err := p.send.Send(msg); err != nil {
		p.logger.Debug("failed to forward event", "type", event.Type(), "error", err)
	}
}

// HandleDecision routes an answer from the client's read loop to the
// blocked decision request. Answers with a stale or missing request ID
// are rejected.
func (p *NetworkPlayer) HandleDecision(requestID string, data DecisionData) error {
	p.mu.Lock()
	pending := p.pendingID
	p.mu.Unlock()

	if requestID == "" || requestID != pending {
		return fmt.Errorf("no pending decision request %q", requestID)
	}

	select {
	case p.responses <- decisionResponse{requestID: requestID, data: data}:
		return nil
	default:
		return fmt.Errorf("decision %q already answered", requestID)
	}
}

// request runs the request-response loop for one decision. It returns
// ok=false when the client timed out, disconnected, or burned through
// every retry with invalid answers.
func (p *NetworkPlayer) request(req DecisionRequestData, valid func(DecisionData) bool) (DecisionData, bool) {
	req.TimeoutSeconds = int(p.timeout / time.Second)

	for attempt := 0; attempt <= p.retries; attempt++ {
		msg, err := NewMessage(MessageTypeDecisionRequest, req)
		if err != nil {
			p.logger.Error("failed to encode decision request", "kind", req.Kind, "error", err)
			return DecisionData{}, false
		}
		msg.RequestID = p.nextRequestID()

		if err := p.send.Send(msg); err != nil {
			p.logger.Warn("client unreachable, falling back", "kind", req.Kind, "error", err)
			return DecisionData{}, false
		}

		fired := make(chan struct{})
		timer := p.clock.AfterFunc(p.timeout, func() { close(fired) })

		select {
		case resp := <-p.responses:
			timer.Stop()
			if resp.requestID != msg.RequestID {
				continue
			}
			if resp.data.Kind == req.Kind && valid(resp.data) {
				p.clearPending()
				return resp.data, true
			}
			p.logger.Warn("invalid decision answer", "kind", req.Kind, "attempt", attempt)
			p.sendError("invalid_decision", fmt.Sprintf("invalid answer for %s request", req.Kind))

		case <-fired:
			p.logger.Warn("decision timed out", "kind", req.Kind, "timeout", p.timeout)
			p.clearPending()
			p.announceTimeout(req.Kind)
			return DecisionData{}, false
		}
	}

	p.clearPending()
	p.announceTimeout(req.Kind)
	return DecisionData{}, false
}

func (p *NetworkPlayer) nextRequestID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.pendingID = fmt.Sprintf("%s-%d", p.name, p.seq)
	return p.pendingID
}

func (p *NetworkPlayer) clearPending() {
	p.mu.Lock()
	p.pendingID = ""
	p.mu.Unlock()
}

func (p *NetworkPlayer) announceTimeout(kind DecisionKind) {
	if p.OnTimeout == nil {
		return
	}
	p.OnTimeout(PlayerTimeoutData{
		PlayerName:     p.name,
		Kind:           kind,
		TimeoutSeconds: int(p.timeout / time.Second),
	})
}

func (p *NetworkPlayer) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		return
	}
	_ = p.send.Send(msg)
}

// validCard accepts an answer that names a card the hand holds
func (p *NetworkPlayer) validCard(data DecisionData) bool {
	card, err := deck.ParseCard(data.Card)
	return err == nil && p.holds(card)
}

func (p *NetworkPlayer) holds(card deck.Card) bool {
	for _, c := range p.hand {
		if c == card {
			return true
		}
	}
	return false
}

func (p *NetworkPlayer) holdsSuit(led, trump deck.Suit) bool {
	for _, c := range p.hand {
		if c.EffectiveSuit(trump) == led {
			return true
		}
	}
	return false
}

func (p *NetworkPlayer) firstLegal(view game.TrickView) deck.Card {
	if led, ok := view.LedSuit(); ok {
		for _, c := range p.hand {
			if c.EffectiveSuit(view.Trump) == led {
				return c
			}
		}
	}
	return p.hand[0]
}

func (p *NetworkPlayer) removeCard(card deck.Card) {
	for i, c := range p.hand {
		if c == card {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return
		}
	}
}

func acceptAny(DecisionData) bool { return true }
