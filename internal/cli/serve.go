package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgedit/internal/bridge"
)

var (
	serveAddr  string
	serveToken string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket bridge for the editor frontend",
	Long: `Run the bridge the editor frontend connects to.

The frontend calls the file commands and menu actions as requests over
ws://<addr>/ws and receives open_workspace, open_json_file, new_map, save
and export events on the same connection. GET /healthz reports liveness.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:1420)")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "Require this token from clients (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.bus.Close()

	opts := bridge.Options{
		Addr:      a.cfg.Bridge.Addr,
		Token:     a.cfg.Bridge.Token,
		QueueSize: a.cfg.Bridge.QueueSize,
		Logger:    a.logger,
	}
	if serveAddr != "" {
		opts.Addr = serveAddr
	}
	if serveToken != "" {
		opts.Token = serveToken
	}

	srv := bridge.NewServer(a.bus, opts)
	bridge.Register(srv, a.engine)

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-srv.Ready():
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		_ = outputJSON(out, map[string]string{"addr": srv.Addr(), "ws": "ws://" + srv.Addr() + "/ws"})
	} else {
		PrintSuccess(out, fmt.Sprintf("Bridge listening on ws://%s/ws", srv.Addr()))
		fmt.Fprintln(out, "Press Ctrl+C to stop.")
	}

	err = <-errCh
	a.logger.Info("bridge stopped", slog.Bool("interrupted", ctx.Err() != nil))
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// contextOrBackground tolerates commands executed without a context.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
