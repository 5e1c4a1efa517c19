package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hxcode/nativeos/internal/config"
	"github.com/hxcode/nativeos/pkg/gateway"
	"github.com/hxcode/nativeos/pkg/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dispatcher to GUI and remote clients",
	Long: `Start the gateway server so GUI frontends can issue commands over
websocket or HTTP, plus the scheduled maintenance dispatch when enabled.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.cfg.Gateway.Enabled {
		return fmt.Errorf("gateway is disabled; set gateway.enabled in %s", config.NewLoader(cfgFile).GetConfigPath())
	}

	server, err := gateway.NewServer(gateway.Config{
		Port:         rt.cfg.Gateway.Port,
		SharedSecret: rt.cfg.Gateway.SharedSecret,
		Dispatch:     rt.dispatcher.Dispatch,
		Logger:       rt.log.Zerolog(),
	})
	if err != nil {
		return err
	}

	if rt.cfg.Maintenance.Enabled {
		sched, err := scheduler.New(scheduler.Config{
			Expr:     rt.cfg.Maintenance.Cron,
			Dispatch: rt.dispatcher.Dispatch,
			Logger:   rt.log.Zerolog(),
		})
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	// Advise on config edits; the registry stays fixed until restart
	watcher, err := config.NewWatcher(rt.log.Zerolog(),
		config.NewLoader(cfgFile).GetConfigPath(), rt.cfg.AgentsManifest)
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		zl := rt.log.Zerolog()
		zl.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
