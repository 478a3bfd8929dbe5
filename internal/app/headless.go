package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/config"
	"github.com/Faultbox/mod1/internal/stream"
)

// statsInterval is how often the headless loop logs counters.
const statsInterval = 5 * time.Second

// Headless runs a session on a ticker and, when configured, serves it over
// the websocket stream.
type Headless struct {
	*Session

	hub    *stream.Hub
	server *stream.Server
	cfg    *config.Config
	log    *zap.Logger
}

// NewHeadless creates a headless simulator. The stream server is only
// started when cfg.Stream.Addr is set; the hub exists either way.
func NewHeadless(cfg *config.Config, log *zap.Logger) (*Headless, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s, err := NewSession(cfg, log)
	if err != nil {
		return nil, err
	}

	h := &Headless{
		Session: s,
		hub:     stream.NewHub(log.Named("stream"), 64),
		cfg:     cfg,
		log:     log,
	}
	if err := h.hub.SetWelcome(h.TerrainFrame()); err != nil {
		return nil, err
	}
	if cfg.Stream.Addr != "" {
		h.server = stream.NewServer(cfg.Stream.Addr, h.hub, log.Named("stream"))
	}
	return h, nil
}

// Hub returns the stream hub.
func (h *Headless) Hub() *stream.Hub {
	return h.hub
}

// Run steps the simulation until ctx is cancelled.
func (h *Headless) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	if h.server != nil {
		go func() { errc <- h.server.Serve(ctx) }()
	}

	tick := time.NewTicker(h.cfg.Simulation.TickRate)
	defer tick.Stop()
	push := time.NewTicker(h.cfg.Stream.Interval)
	defer push.Stop()
	stats := time.NewTicker(statsInterval)
	defer stats.Stop()

	h.log.Info("headless simulation started",
		zap.Duration("tick_rate", h.cfg.Simulation.TickRate),
		zap.String("stream", h.cfg.Stream.Addr),
	)

	for {
		select {
		case <-ctx.Done():
			if h.server != nil {
				if err := <-errc; err != nil {
					return err
				}
			}
			h.log.Info("headless simulation stopped", zap.Uint64("ticks", h.Sim.Stats().Tick))
			return nil

		case err := <-errc:
			return err

		case cmd := <-h.hub.Commands():
			if err := h.command(cmd); err != nil {
				h.log.Warn("command failed", zap.String("action", cmd.Action), zap.Error(err))
			}

		case <-tick.C:
			h.Controls.Step(h.Sim)

		case <-push.C:
			if h.hub.Clients() == 0 {
				continue
			}
			if err := h.hub.Broadcast(h.WaterFrame()); err != nil {
				h.log.Error("broadcast failed", zap.Error(err))
			}

		case <-stats.C:
			st := h.Sim.Stats()
			h.log.Debug("stats",
				zap.Uint64("tick", st.Tick),
				zap.Int("level", st.Level),
				zap.Int("active", st.Active),
				zap.Int("clients", h.hub.Clients()),
			)
		}
	}
}

func (h *Headless) command(cmd stream.Command) error {
	a, done, err := h.Controls.Command(h.Sim, cmd)
	if err != nil || done || a != ActionRegrid {
		return err
	}
	if err := h.Regrid(); err != nil {
		return err
	}
	frame := h.TerrainFrame()
	if err := h.hub.SetWelcome(frame); err != nil {
		return err
	}
	return h.hub.Broadcast(frame)
}
