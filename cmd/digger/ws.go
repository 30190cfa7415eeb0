package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/platform/ws"
)

var (
	flagWSAddr   string
	flagWSRecord string
)

var wsCmd = &cobra.Command{
	Use:   "ws",
	Short: "Start the headless websocket server",
	Long: `Start an HTTP server that runs a private game for each websocket
connection and streams JSON frames to the client.

Endpoints:
  GET /play?level=<id>           - Play the campaign from a level
  GET /play?mode=random&seed=<n> - Play random maps
  GET /levels                    - List campaign levels
  GET /healthz                   - Liveness probe

Client messages:
  {"type":"input","dir":"left"}  - Move (none, up, down, left, right)
  {"type":"pause"}               - Toggle pause
  {"type":"restart"}             - Restart after game over or win

Examples:
  digger ws
  digger ws --addr :9000 --fps 10 --record ./replays`,
	RunE: runWS,
}

func init() {
	wsCmd.Flags().StringVar(&flagWSAddr, "addr", ":8080", "HTTP listen address (host:port)")
	wsCmd.Flags().StringVar(&flagWSRecord, "record", "", "Directory to record games into")
}

func runWS(_ *cobra.Command, _ []string) error {
	logger := newLogger("digger-ws")
	lvls := campaign(logger)

	cfg := ws.DefaultConfig()
	cfg.Address = flagWSAddr
	cfg.TickRate = flagFPS
	if flagWSRecord != "" {
		cfg.ReplayDir = expandHome(flagWSRecord)
	}
	gameCfg := gameConfig()
	cfg.Game = &gameCfg

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ws.NewServer(cfg, lvls, store, logger).ListenAndServe(ctx)
}
