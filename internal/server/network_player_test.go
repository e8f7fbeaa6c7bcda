package server

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// fakeSender records outgoing messages and exposes decision requests on
// a channel so tests can answer them
type fakeSender struct {
	mu       sync.Mutex
	sent     []*Message
	requests chan *Message
	err      error
}

func newFakeSender() *fakeSender {
	return &fakeSender{requests: make(chan *Message, 8)}
}

func (f *fakeSender) Send(msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	if msg.Type == MessageTypeDecisionRequest {
		f.requests <- msg
	}
	return nil
}

func (f *fakeSender) messagesOfType(t MessageType) []*Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Message
	for _, m := range f.sent {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func newTestPlayer(t *testing.T, sender *fakeSender, clock quartz.Clock, retries int) *NetworkPlayer {
	t.Helper()
	return NewNetworkPlayer("alice", sender, log.New(io.Discard), clock, 30*time.Second, retries)
}

// answer replies to the next decision request with the given data
func answer(t *testing.T, sender *fakeSender, p *NetworkPlayer, data DecisionData) {
	t.Helper()
	select {
	case msg := <-sender.requests:
		require.NoError(t, p.HandleDecision(msg.RequestID, data))
	case <-time.After(5 * time.Second):
		t.Fatal("no decision request arrived")
	}
}

func TestOrderUpRoundTrip(t *testing.T) {
	sender := newFakeSender()
	p := newTestPlayer(t, sender, quartz.NewMock(t), 3)
	p.Notify(game.TopCardEvent{Card: deck.MustParseCard("1C")})

	go answer(t, sender, p, DecisionData{Kind: DecisionOrderUp, Accept: true})
	assert.True(t, p.OrderUp())

	reqs := sender.messagesOfType(MessageTypeDecisionRequest)
	require.Len(t, reqs, 1)
	var data DecisionRequestData
	require.NoError(t, json.Unmarshal(reqs[0].Data, &data))
	assert.Equal(t, DecisionOrderUp, data.Kind)
	require.NotNil(t, data.TopCard)
	assert.Equal(t, deck.MustParseCard("1C"), *data.TopCard)
}

func TestDecisionTimeoutFallsBack(t *testing.T) {
	sender := newFakeSender()
	mClock := quartz.NewMock(t)
	p := newTestPlayer(t, sender, mClock, 3)

	var timedOut PlayerTimeoutData
	p.OnTimeout = func(data PlayerTimeoutData) { timedOut = data }

	done := make(chan bool)
	go func() { done <- p.OrderUp() }()

	// Wait for the request to go out; the timeout timer is armed right
	// after the send.
	select {
	case <-sender.requests:
	case <-time.After(5 * time.Second):
		t.Fatal("no decision request arrived")
	}
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mClock.Advance(30 * time.Second).MustWait(ctx)

	assert.False(t, <-done, "a timed-out order-up resolves to a pass")
	assert.Equal(t, "alice", timedOut.PlayerName)
	assert.Equal(t, DecisionOrderUp, timedOut.Kind)
}

func TestPlayCardRejectsIllegalAnswers(t *testing.T) {
	sender := newFakeSender()
	p := newTestPlayer(t, sender, quartz.NewMock(t), 3)
	p.UpdateHand(deck.MustParseCards("AC", "9H"))

	view := game.TrickView{
		Leader: "leader",
		Trump:  deck.Spades,
		Trick:  0,
		Played: map[string][]deck.Card{"leader": deck.MustParseCards("9C")},
	}

	go func() {
		// Ducking the club lead while holding a club is rejected, as is
		// a card the hand does not hold.
		answer(t, sender, p, DecisionData{Kind: DecisionPlayCard, Card: "9H"})
		answer(t, sender, p, DecisionData{Kind: DecisionPlayCard, Card: "KD"})
		answer(t, sender, p, DecisionData{Kind: DecisionPlayCard, Card: "AC"})
	}()

	card := p.PlayCard(view)
	assert.Equal(t, deck.MustParseCard("AC"), card)
	assert.Len(t, sender.messagesOfType(MessageTypeDecisionRequest), 3)
	assert.Len(t, sender.messagesOfType(MessageTypeError), 2)
}

func TestCallTrumpFallsBackAfterRetries(t *testing.T) {
	sender := newFakeSender()
	p := newTestPlayer(t, sender, quartz.NewMock(t), 1)

	go func() {
		// Naming the turned-down suit is never a valid call.
		answer(t, sender, p, DecisionData{Kind: DecisionCallTrump, Suit: "C"})
		answer(t, sender, p, DecisionData{Kind: DecisionCallTrump, Suit: "C"})
	}()

	suit := p.CallTrump(deck.Clubs)
	assert.Equal(t, deck.Spades, suit, "the fallback names the first callable suit")
	assert.Len(t, sender.messagesOfType(MessageTypeDecisionRequest), 2)
}

func TestDiscardFallsBackWhenDisconnected(t *testing.T) {
	sender := newFakeSender()
	p := newTestPlayer(t, sender, quartz.NewMock(t), 3)
	p.UpdateHand(deck.MustParseCards("AC", "KC", "QC", "JC", "9C"))

	sender.mu.Lock()
	sender.err = ErrConnectionClosed
	sender.mu.Unlock()

	top := deck.MustParseCard("1C")
	assert.Equal(t, top, p.DiscardCard(top), "an unreachable client keeps the hand as dealt")
	assert.Len(t, p.hand, 5)
	assert.False(t, p.holds(top))
}

func TestHandleDecisionRejectsStaleRequests(t *testing.T) {
	sender := newFakeSender()
	p := newTestPlayer(t, sender, quartz.NewMock(t), 3)

	err := p.HandleDecision("alice-99", DecisionData{Kind: DecisionOrderUp, Accept: true})
	require.Error(t, err)

	go func() {
		msg := <-sender.requests
		// A second answer to the same request must be rejected.
		require.NoError(t, p.HandleDecision(msg.RequestID, DecisionData{Kind: DecisionOrderUp, Accept: true}))
		assert.Error(t, p.HandleDecision(msg.RequestID, DecisionData{Kind: DecisionOrderUp, Accept: false}))
	}()
	assert.True(t, p.OrderUp())
}

func TestUpdateHandIsPrivate(t *testing.T) {
	sender := newFakeSender()
	p := newTestPlayer(t, sender, quartz.NewMock(t), 3)
	p.UpdateHand(deck.MustParseCards("AC", "KC", "QC", "JC", "9C"))

	hands := sender.messagesOfType(MessageTypeHand)
	require.Len(t, hands, 1)
	var data HandData
	require.NoError(t, json.Unmarshal(hands[0].Data, &data))
	assert.Equal(t, deck.MustParseCards("AC", "KC", "QC", "JC", "9C"), data.Cards)
}
