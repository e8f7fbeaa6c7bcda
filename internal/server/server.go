package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	rand "math/rand/v2"

	"github.com/natelac/euchrego/internal/bot"
	"github.com/natelac/euchrego/internal/game"
	"github.com/natelac/euchrego/internal/matchid"
	"github.com/natelac/euchrego/internal/randutil"
)

// Server hosts one euchre table over WebSocket. Bots from the
// configuration are seated immediately; remote players take the
// remaining seats as they join, and the match starts the moment the
// fourth seat fills.
type Server struct {
	cfg      *Config
	upgrader websocket.Upgrader
	logger   *log.Logger
	clock    quartz.Clock
	rng      *rand.Rand

	mu          sync.Mutex
	connections map[*Connection]bool
	seats       []game.Player
	started     bool

	matchDone chan struct{}
	matchErr  error
	winner    *game.Team
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithClock substitutes the clock used for decision timeouts
func WithClock(clock quartz.Clock) ServerOption {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithRNG substitutes the generator used for seating and shuffling
func WithRNG(rng *rand.Rand) ServerOption {
	return func(s *Server) {
		s.rng = rng
	}
}

// NewServer creates a server for the given configuration
func NewServer(cfg *Config, logger *log.Logger, opts ...ServerOption) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
		connections: make(map[*Connection]bool),
		matchDone:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		if cfg.Game.Seed != 0 {
			s.rng = randutil.New(cfg.Game.Seed)
		} else {
			s.rng = randutil.Fresh()
		}
	}

	for _, bc := range cfg.Bots {
		s.seats = append(s.seats, s.newBot(bc))
	}
	if len(s.seats) == 4 {
		// An all-bot table needs no remote players
		s.startMatch()
	}
	return s, nil
}

func (s *Server) newBot(bc BotConfig) game.Player {
	switch bc.Strategy {
	case "random":
		return bot.NewRandom(bc.Name, s.rng, s.logger)
	default:
		return bot.NewGreedy(bc.Name, s.rng, s.logger)
	}
}

// Start serves WebSocket traffic until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{Addr: s.cfg.ListenAddress(), Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.ListenAddress())
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		s.mu.Lock()
		for conn := range s.connections {
			_ = conn.Close()
		}
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// MatchDone is closed when the hosted match finishes
func (s *Server) MatchDone() <-chan struct{} {
	return s.matchDone
}

// Winner returns the match result once MatchDone is closed
func (s *Server) Winner() (*game.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner, s.matchErr
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client connected", "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// authorizeJoin checks a remote player's token against the configured
// join token. An empty configured token leaves the table open.
func (s *Server) authorizeJoin(token string) bool {
	want := s.cfg.Server.JoinToken
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1
}

// seatRemote binds a remote player to a table seat. The fourth seat
// starts the match.
func (s *Server) seatRemote(name string, conn sender) (*NetworkPlayer, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil, 0, fmt.Errorf("game already in progress")
	}
	if len(s.seats) >= 4 {
		return nil, 0, fmt.Errorf("table is full")
	}
	for _, p := range s.seats {
		if p.Name() == name {
			return nil, 0, fmt.Errorf("player name %q already taken", name)
		}
	}

	player := NewNetworkPlayer(
		name, conn, s.logger, s.clock,
		time.Duration(s.cfg.Game.DecisionTimeout)*time.Second,
		s.cfg.Game.DecisionRetries,
	)
	player.OnTimeout = s.broadcastTimeout

	s.seats = append(s.seats, player)
	seat := len(s.seats) - 1

	if len(s.seats) == 4 {
		s.startMatch()
	}
	return player, seat, nil
}

// startMatch launches the match goroutine. Callers hold s.mu or have
// exclusive access during construction.
func (s *Server) startMatch() {
	s.started = true
	seats := append([]game.Player{}, s.seats...)
	go s.runMatch(seats)
}

// runMatch plays the hosted match. Joined clients receive every
// broadcast through their seat's Notify; the first two joiners partner
// against the last two.
func (s *Server) runMatch(seats []game.Player) {
	defer close(s.matchDone)

	id := matchid.Generate()
	logger := s.logger.With("match", id)
	logger.Info("match starting",
		"players", []string{seats[0].Name(), seats[1].Name(), seats[2].Name(), seats[3].Name()})

	s.broadcast(mustMessage(MessageTypeGameStart, GameStartData{
		MatchID: id,
		Players: []string{seats[0].Name(), seats[1].Name(), seats[2].Name(), seats[3].Name()},
	}))

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithWinningScore(s.cfg.Game.WinningScore),
	}
	if s.cfg.Game.RoundLog != "" {
		writer, err := game.NewFileRoundWriter(s.cfg.Game.RoundLog)
		if err != nil {
			s.finishMatch(nil, fmt.Errorf("opening round log: %w", err))
			return
		}
		defer func() { _ = writer.Close() }()
		opts = append(opts, game.WithRoundWriter(writer))
	}

	team1 := game.NewTeam(seats[0], seats[1])
	team2 := game.NewTeam(seats[2], seats[3])

	engine, err := game.New(s.rng, team1, team2, opts...)
	if err != nil {
		s.finishMatch(nil, err)
		return
	}

	winner, err := engine.Play()
	if err != nil {
		logger.Error("match failed", "error", err)
	} else {
		logger.Info("match finished", "winner", winner.Name(), "points", winner.Points())
	}
	s.finishMatch(winner, err)
}

func (s *Server) finishMatch(winner *game.Team, err error) {
	s.mu.Lock()
	s.winner = winner
	s.matchErr = err
	s.mu.Unlock()
}

func (s *Server) broadcastTimeout(data PlayerTimeoutData) {
	s.broadcast(mustMessage(MessageTypePlayerTimeout, data))
}

// broadcast sends a message to every connected client
func (s *Server) broadcast(msg *Message) {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Send(msg); err != nil {
			s.logger.Debug("broadcast failed", "error", err)
		}
	}
}

func mustMessage(messageType MessageType, data interface{}) *Message {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		panic(err)
	}
	return msg
}
