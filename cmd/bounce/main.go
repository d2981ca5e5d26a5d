// Command bounce runs the bouncing-ball demo in a terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/audio"
	"github.com/lixenwraith/framebridge/bridge"
	"github.com/lixenwraith/framebridge/config"
	"github.com/lixenwraith/framebridge/event"
	"github.com/lixenwraith/framebridge/scene"
	"github.com/lixenwraith/framebridge/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bounce: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	logger, logFile, err := setupLogging(cfg.Debug, cfg.LogDir)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()
	bridge.SetLogger(logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}

	env := termenv.New(screen,
		termenv.WithFrameRate(cfg.FrameRate),
		termenv.WithLogger(logger.Named("termenv")),
		termenv.WithContainerID(cfg.ContainerID),
		termenv.WithConvertOptions(event.WithButtonsBitmask(cfg.ButtonsBitmask)),
		termenv.WithCrashHandler(func(r any) {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mBOUNCE CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}),
	)

	opts := []scene.Option{
		scene.WithBalls(cfg.Balls),
		scene.WithSeed(cfg.Seed),
		scene.WithLogger(logger.Named("scene")),
	}
	if cfg.Sound {
		player := audio.NewPlayer(logger.Named("audio"))
		if err := player.Initialize(); err != nil {
			// Non-fatal, the demo runs silent
			logger.Warn("audio initialization failed", zap.Error(err))
		} else {
			defer player.Cleanup()
			opts = append(opts, scene.WithSounder(player))
		}
	}
	sc := scene.New(env.Canvas(), opts...)

	b := bridge.New(env.Loader(),
		bridge.WithContainerID(cfg.ContainerID),
		bridge.WithLogger(logger.Named("bridge")),
	)
	sc.Bind(b)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize bridge: %w", err)
	}
	logger.Info("bridge active", zap.Int("fps", cfg.FrameRate), zap.Int("balls", cfg.Balls))

	select {
	case <-env.Done():
	case <-ctx.Done():
	}

	err = b.Dispose()
	b.Wait()
	return err
}
