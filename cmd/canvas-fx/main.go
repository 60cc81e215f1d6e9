package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/canvas-fx/api"
	"github.com/lixenwraith/canvas-fx/audio"
	"github.com/lixenwraith/canvas-fx/config"
	"github.com/lixenwraith/canvas-fx/core"
	"github.com/lixenwraith/canvas-fx/engine"
	"github.com/lixenwraith/canvas-fx/fx"
	"github.com/lixenwraith/canvas-fx/network"
	"github.com/lixenwraith/canvas-fx/render"
	"github.com/lixenwraith/canvas-fx/service"
)

var (
	configFlag   = flag.String("config", "", "TOML configuration file")
	debugFlag    = flag.Bool("debug", false, "write logs to logs/canvas-fx.log")
	identityFlag = flag.String("identity", "", "local user id matched against allow-lists")
	roleFlag     = flag.String("role", "", "network role: none, client, server")
	addrFlag     = flag.String("addr", "", "network address to listen on or dial")
	httpFlag     = flag.String("http", "", "HTTP listen address (empty disables)")
	muteFlag     = flag.Bool("mute", false, "disable audio")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "canvas-fx: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "canvas-fx: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file when given; explicitly set flags override it
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "identity":
			cfg.Identity = *identityFlag
		case "role":
			cfg.Network.Role = *roleFlag
		case "addr":
			cfg.Network.Address = *addrFlag
		case "http":
			cfg.HTTP.Address = *httpFlag
		case "mute":
			cfg.Audio.Enabled = !*muteFlag
		}
	})
	return cfg, cfg.Validate()
}

func run(cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	core.RegisterCrashReset(screen.Fini)
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	painter := render.NewPainter(screen, cfg.Display.CellWidth, cfg.Display.CellHeight)
	scene := render.NewScene(painter.Viewport())
	sched := engine.NewScheduler(engine.NewMonotonicClock(), cfg.Display.FrameInterval)

	audioSvc := audio.NewService()
	netSvc := network.NewService()
	var services service.Group
	err = services.Start(
		service.Binding{Service: audioSvc, Args: []any{cfg.AudioConfig()}},
		service.Binding{Service: netSvc, Args: []any{cfg.NetworkConfig()}},
	)
	if err != nil {
		return err
	}
	defer services.Stop()

	disp := fx.NewDispatcher(sched, scene, fx.Options{
		Identity: cfg.Identity,
		Player:   audioSvc.Player(),
	})
	defer disp.Close()

	var outs []fx.Broadcaster
	if netSvc.IsRunning() {
		outs = append(outs, netSvc)
	}
	var hub *api.Hub
	if cfg.HTTP.Address != "" {
		hub = api.NewHub()
		outs = append(outs, hub)
	}
	relay := fx.NewRelay(sched, disp, cfg.Identity, outs...)

	netSvc.OnPacket(func(from network.PeerID, payload []byte) {
		if err := relay.Receive(payload); err != nil {
			log.Printf("network: packet from peer %d: %v", from, err)
		}
	})

	if hub != nil {
		srv := api.NewServer(cfg.HTTP.Address, relay, hub)
		if _, err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("api: shutdown: %v", err)
			}
		}()
	}

	sched.Every(cfg.Display.FrameInterval, func() {
		painter.Paint(scene, sched.Now())
	})

	// Input polling stays off the scheduler goroutine; events are posted back
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			sched.Post(func() {
				if !handleEvent(ev, relay, scene, painter, screen) {
					cancel()
				}
			})
		}
	})

	log.Printf("canvas-fx: running as %q (network %s, http %q)", cfg.Identity, cfg.Network.Role, cfg.HTTP.Address)
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// handleEvent reacts to one terminal event; false requests exit
func handleEvent(ev tcell.Event, relay *fx.Relay, scene *render.Scene, painter *render.Painter, screen tcell.Screen) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			if ev.Rune() == 'q' {
				return false
			}
			runDemo(relay, ev.Rune())
		}

	case *tcell.EventResize:
		screen.Sync()
		scene.Resize(painter.Viewport())
	}
	return true
}
