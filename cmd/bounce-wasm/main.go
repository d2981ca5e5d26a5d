//go:build js && wasm

// Command bounce-wasm runs the bouncing-ball demo in a browser page
// The page must provide <div id="canvasHolder"><canvas></canvas></div>
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/bridge"
	"github.com/lixenwraith/framebridge/browser"
	"github.com/lixenwraith/framebridge/config"
	"github.com/lixenwraith/framebridge/event"
	"github.com/lixenwraith/framebridge/scene"
)

// Browser pixels are much smaller than terminal cells
const (
	pixelMaxSpeed  = 6.0
	pixelMinRadius = 8.0
	pixelMaxRadius = 24.0
)

func main() {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		cfg = config.Config{Balls: 3, Seed: uint64(time.Now().UnixNano()), ContainerID: bridge.DefaultContainerID}
	}

	logger := zap.NewNop()
	if cfg.Debug {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	bridge.SetLogger(logger)

	mod := browser.New(
		browser.WithLogger(logger.Named("browser")),
		browser.WithConvertOptions(event.WithButtonsBitmask(cfg.ButtonsBitmask)),
	)

	b := bridge.New(mod.Loader(),
		bridge.WithContainerID(cfg.ContainerID),
		bridge.WithLogger(logger.Named("bridge")),
	)

	sc := scene.New(mod.View(cfg.ContainerID),
		scene.WithBalls(cfg.Balls),
		scene.WithSeed(cfg.Seed),
		scene.WithMaxSpeed(pixelMaxSpeed),
		scene.WithRadius(pixelMinRadius, pixelMaxRadius),
		scene.WithLogger(logger.Named("scene")),
	)
	sc.Bind(b)

	if err := b.Initialize(context.Background()); err != nil {
		logger.Error("initialize bridge", zap.Error(err))
		return
	}

	b.Wait()
}
