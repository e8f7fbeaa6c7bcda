// Package client connects a local player to a remote euchre table. The
// local player can be a console seat, a bot, or anything else that
// implements game.Player; the client answers the server's decision
// requests by driving it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/natelac/euchrego/internal/game"
	"github.com/natelac/euchrego/internal/server"
)

// Client represents a WebSocket client holding one seat at a table
type Client struct {
	serverURL string
	player    game.Player
	logger    *log.Logger

	conn      *websocket.Conn
	send      chan *server.Message
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	seat     int
	joined   bool
	joinErr  error
	joinDone chan struct{}

	// OnEvent, when set, observes every decoded game event after the
	// player has been notified
	OnEvent func(event game.Event)

	// Token is sent with the join request for tables that require one
	Token string

	// Done is closed when the game ends or the connection drops
	done     chan struct{}
	doneOnce sync.Once
}

// NewClient creates a client that will seat the given player
func NewClient(serverURL string, player game.Player, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		player:    player,
		logger:    logger.WithPrefix("client"),
		send:      make(chan *server.Message, 256),
		ctx:       ctx,
		cancel:    cancel,
		joinDone:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Connect dials the server and starts the message pumps
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	c.logger.Info("connecting", "url", u.String())
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

// Disconnect closes the connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.finish()
	})
	return nil
}

// Join requests a seat and waits for the server's verdict
func (c *Client) Join(ctx context.Context, name string) (int, error) {
	msg, err := server.NewMessage(server.MessageTypeJoin, server.JoinData{PlayerName: name, Token: c.Token})
	if err != nil {
		return 0, err
	}
	if err := c.enqueue(msg); err != nil {
		return 0, err
	}

	select {
	case <-c.joinDone:
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.seat, c.joinErr
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-c.ctx.Done():
		return 0, fmt.Errorf("connection closed before join completed")
	}
}

// Done is closed when the game ends or the connection drops
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) finish() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *Client) enqueue(msg *server.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.finish()
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.ctx.Done():
			default:
				c.logger.Debug("connection closed", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) handleMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeJoinResponse:
		var data server.JoinResponseData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("bad join response", "error", err)
			return
		}
		c.completeJoin(data)

	case server.MessageTypeHand:
		var data server.HandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("bad hand message", "error", err)
			return
		}
		c.player.UpdateHand(data.Cards)

	case server.MessageTypeDecisionRequest:
		var data server.DecisionRequestData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("bad decision request", "error", err)
			return
		}
		c.answer(msg.RequestID, data)

	case server.MessageTypeGameEvent:
		var data server.GameEventData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("bad game event", "error", err)
			return
		}
		event, err := server.DecodeGameEvent(data)
		if err != nil {
			c.logger.Error("failed to decode game event", "type", data.EventType, "error", err)
			return
		}
		c.player.Notify(event)
		if c.OnEvent != nil {
			c.OnEvent(event)
		}
		if event.Type() == game.EventTypeGameResults {
			c.finish()
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			c.logger.Warn("server error", "code", data.Code, "message", data.Message)
		}

	case server.MessageTypeGameStart, server.MessageTypePlayerTimeout:
		// Informational; surfaced through OnEvent consumers if needed

	default:
		c.logger.Debug("unhandled message", "type", msg.Type)
	}
}

func (c *Client) completeJoin(data server.JoinResponseData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.joined {
		return
	}
	c.joined = true
	c.seat = data.Seat
	if !data.Success {
		c.joinErr = fmt.Errorf("join rejected: %s", data.Error)
	}
	close(c.joinDone)
}

// answer drives the local player for one decision and replies with the
// same request ID. Decisions arrive one at a time, so blocking here is
// fine even when the local player is a human.
func (c *Client) answer(requestID string, req server.DecisionRequestData) {
	answer := server.DecisionData{Kind: req.Kind}

	switch req.Kind {
	case server.DecisionOrderUp:
		answer.Accept = c.player.OrderUp()

	case server.DecisionDiscard:
		if req.TopCard == nil {
			c.logger.Error("discard request without top card")
			return
		}
		answer.Card = c.player.DiscardCard(*req.TopCard).String()

	case server.DecisionOrderTrump:
		answer.Accept = c.player.OrderTrump()

	case server.DecisionCallTrump:
		if req.TurnedDown == nil {
			c.logger.Error("call request without turned-down suit")
			return
		}
		answer.Suit = c.player.CallTrump(*req.TurnedDown).String()

	case server.DecisionGoAlone:
		answer.Accept = c.player.GoAlone()

	case server.DecisionPlayCard:
		if req.Trick == nil {
			c.logger.Error("play request without trick state")
			return
		}
		answer.Card = c.player.PlayCard(req.Trick.View()).String()

	default:
		c.logger.Error("unknown decision kind", "kind", req.Kind)
		return
	}

	msg, err := server.NewMessage(server.MessageTypeDecision, answer)
	if err != nil {
		c.logger.Error("failed to encode decision", "error", err)
		return
	}
	msg.RequestID = requestID

	if err := c.enqueue(msg); err != nil {
		c.logger.Error("failed to send decision", "error", err)
	}
}
