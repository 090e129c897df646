package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/kozaktomas/face-enroll/internal/constants"
	"github.com/kozaktomas/face-enroll/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control API",
	Long: `Start the Face Enroll web server.
The server exposes the capture sequence over HTTP (start, stop, single
capture, live events over SSE), proxies face management to the enrollment
service and serves a minimal kiosk page at /.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addSequenceFlags(serveCmd)

	serveCmd.Flags().Int("port", constants.DefaultWebPort, "Port to listen on (WEB_PORT)")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to (WEB_HOST)")
}

// resolveServeHostPort lets flags override the environment.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)

	sess, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	server := web.NewServer(cfg, sess.orch, sess.client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = sess.orch.Run(ctx) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		// Stopping the orchestrator closes the event streams so that open
		// SSE connections do not hold up the shutdown.
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Enroll on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Printf("Enrollment service: %s\n", cfg.Service.URL)
	fmt.Println("Press Ctrl+C to stop")

	err = server.Start()
	cancel()
	<-sess.orch.Done()
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
