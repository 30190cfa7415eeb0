package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/replay"
	"github.com/vovakirdan/digger/internal/storage"
)

const (
	writeTimeout = 5 * time.Second
	inputBuffer  = 16
)

var (
	errBadSeed      = errors.New("invalid seed")
	errUnknownLevel = errors.New("unknown level")
)

// Config holds configuration for the websocket server.
type Config struct {
	// Address is the host:port to listen on.
	Address string

	// TickRate is the frame rate of every game.
	TickRate int

	// ReplayDir records every game when set.
	ReplayDir string

	// Game overrides the game configuration loaded from disk.
	Game *config.DiggerConfig
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:  ":8080",
		TickRate: 30,
	}
}

// Server serves games over websockets.
type Server struct {
	cfg      Config
	levels   []levels.Level
	store    *storage.Store // Optional
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server over the given campaign.
func NewServer(cfg Config, lvls []levels.Level, store *storage.Store, logger *log.Logger) *Server {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		levels: lvls,
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /play", s.handlePlay)
	mux.HandleFunc("GET /levels", s.handleLevels)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting websocket server", "address", s.cfg.Address, "levels", len(s.levels))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleLevels lists the campaign levels as JSON.
func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	infos := make([]LevelInfo, len(s.levels))
	for i, lvl := range s.levels {
		infos[i] = LevelInfo{ID: lvl.ID, Name: lvl.Name, Width: lvl.Width, Height: lvl.Height}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		s.logger.Warn("could not write level list", "error", err)
	}
}

// newGame builds the game requested by the query string:
// ?level=<id> starts the campaign at a level, ?mode=random&seed=<n> plays
// generated maps.
func (s *Server) newGame(r *http.Request) (*digger.Game, core.RuntimeConfig, error) {
	q := r.URL.Query()
	rc := core.RuntimeConfig{TickRate: s.cfg.TickRate, Seed: time.Now().UnixNano()}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, rc, fmt.Errorf("%w %q", errBadSeed, v)
		}
		rc.Seed = seed
	}

	var opts []digger.Option
	if s.cfg.Game != nil {
		opts = append(opts, digger.WithConfig(*s.cfg.Game))
	}

	if q.Get("mode") == string(digger.ModeRandom) {
		return digger.NewRandom(opts...), rc, nil
	}

	if id := q.Get("level"); id != "" {
		found := false
		for _, lvl := range s.levels {
			found = found || lvl.ID == id
		}
		if !found {
			return nil, rc, fmt.Errorf("%w %q", errUnknownLevel, id)
		}
		rc.Level = id
	}
	opts = append(opts, digger.WithLevels(s.levels))
	return digger.New(opts...), rc, nil
}

// handlePlay upgrades the connection and runs one game until the client leaves.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	game, rc, err := s.newGame(r)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, errUnknownLevel) {
			code = http.StatusNotFound
		}
		http.Error(w, err.Error(), code)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		return
	}
	defer conn.Close()

	sess := &session{
		server: s,
		conn:   conn,
		game:   game,
		rc:     rc,
		logger: s.logger.With("remote", r.RemoteAddr, "game", game.ID()),
	}
	sess.run(r.Context())
}

// session is one connected player.
type session struct {
	server   *Server
	conn     *websocket.Conn
	game     *digger.Game
	rc       core.RuntimeConfig
	recorder *replay.Recorder
	logger   *log.Logger

	lastSent core.GameState
	runSaved bool
}

func (sess *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if dir := sess.server.cfg.ReplayDir; dir != "" {
		name := fmt.Sprintf("%s_%d%s", sess.game.ID(), time.Now().UnixNano(), replay.Extension)
		rec, err := replay.Create(filepath.Join(dir, name), sess.game.ID())
		if err != nil {
			sess.logger.Warn("recording disabled", "error", err)
		} else {
			sess.recorder = rec
			sess.game.SetRecorder(rec)
		}
	}

	sess.game.Reset(sess.rc)
	if err := sess.game.LoadErr(); err != nil {
		sess.logger.Error("cannot load level", "error", err)
		sess.close(websocket.CloseInternalServerErr, "cannot load level")
		return
	}
	sess.logger.Info("game started", "level", sess.game.Level().ID)

	inputs := make(chan core.Action, inputBuffer)
	go sess.readLoop(ctx, cancel, inputs)

	ticker := time.NewTicker(time.Second / time.Duration(sess.server.cfg.TickRate))
	defer ticker.Stop()

	if err := sess.send(); err != nil {
		sess.leave()
		return
	}

	for {
		select {
		case <-ctx.Done():
			sess.leave()
			return
		case <-ticker.C:
			frame := core.NewInputFrame()
		drain:
			for {
				select {
				case a := <-inputs:
					frame.Set(a)
				default:
					break drain
				}
			}

			res := sess.game.Step(frame)
			sess.afterStep(res.State)

			if res.Advanced || res.State != sess.lastSent {
				if err := sess.send(); err != nil {
					sess.leave()
					return
				}
			}
		}
	}
}

// readLoop forwards client input until the connection fails.
func (sess *session) readLoop(ctx context.Context, cancel context.CancelFunc, inputs chan<- core.Action) {
	defer cancel()
	for {
		_, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Debug("read failed", "error", err)
			}
			return
		}
		action, err := decodeClientMsg(msg)
		if err != nil {
			sess.logger.Debug("ignoring message", "error", err)
			continue
		}
		select {
		case inputs <- action:
		case <-ctx.Done():
			return
		default:
			// Input queue full; drop
		}
	}
}

// afterStep stores each finished run once.
func (sess *session) afterStep(st core.GameState) {
	if !st.Finished() {
		sess.runSaved = false
		return
	}
	if sess.runSaved {
		return
	}
	outcome := storage.OutcomeGameOver
	if st.Won {
		outcome = storage.OutcomeWon
	}
	sess.saveRun(st, outcome)
	sess.runSaved = true
	sess.logger.Info("game finished", "outcome", outcome, "score", st.Score, "level", st.Level)
}

func (sess *session) saveRun(st core.GameState, outcome storage.Outcome) {
	store := sess.server.store
	if store == nil {
		return
	}
	if st.Score > 0 {
		if _, err := store.SaveScore(sess.game.ID(), st.Score); err != nil {
			sess.logger.Warn("could not save score", "error", err)
		}
	}
	run := storage.Run{
		GameID:  sess.game.ID(),
		LevelID: st.Level,
		Seed:    sess.rc.Seed,
		Ticks:   st.Ticks,
		Score:   st.Score,
		Outcome: outcome,
	}
	if sess.recorder != nil {
		run.ReplayPath = sess.recorder.Path()
	}
	if _, err := store.SaveRun(run); err != nil {
		sess.logger.Warn("could not save run", "error", err)
	}
}

// leave stores an unfinished run and closes the recording.
func (sess *session) leave() {
	st := sess.game.State()
	if !st.Finished() && st.Ticks > 0 {
		sess.saveRun(st, storage.OutcomeQuit)
	}
	if sess.recorder != nil {
		if err := sess.recorder.Close(); err != nil {
			sess.logger.Warn("could not finish recording", "error", err)
		}
	}
	sess.logger.Info("player left", "score", st.Score)
}

// send pushes the current frame.
func (sess *session) send() error {
	st := sess.game.State()
	frame := Frame{
		Type:   TypeFrame,
		Tick:   st.Ticks,
		Score:  st.Score,
		Level:  st.Level,
		Rows:   sess.game.Rows(),
		Over:   st.GameOver,
		Won:    st.Won,
		Paused: st.Paused,
	}
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := sess.conn.WriteJSON(frame); err != nil {
		return err
	}
	sess.lastSent = st
	return nil
}

func (sess *session) close(code int, reason string) {
	_ = sess.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}
