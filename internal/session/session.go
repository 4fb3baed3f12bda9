// Package session drives one client connection: a fixed-cadence physics
// tick, throttled snapshot emission, periodic stats, heartbeats and inbound
// control dispatch.
package session

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"nbody_galaxy_sim/internal/config"
	"nbody_galaxy_sim/internal/protocol"
	"nbody_galaxy_sim/internal/simulation"
	"nbody_galaxy_sim/internal/watchdog"
	"nbody_galaxy_sim/pkg/metrics"
)

const (
	// writeWait bounds a single outbound write.
	writeWait = 5 * time.Second

	// controlBuffer holds config echoes, errors and stats. These frames
	// are never dropped; snapshots are the only lossy traffic.
	controlBuffer = 32
)

// Session owns one peer's simulation and its event loop. Each session has
// its own Simulation instance; nothing is shared between sessions except
// the watchdog.
type Session struct {
	id     string
	conn   *websocket.Conn
	sim    *simulation.Simulation
	logger *zap.Logger

	wd     *watchdog.Watchdog
	frames *atomic.Uint64

	// snapshotCh is lossy: capacity one, drop when the writer is behind.
	snapshotCh chan []byte
	controlCh  chan []byte
	inboundCh  chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the tick loop.
	lastSnapshot   time.Time
	lastStatsFrame uint64
	lastFrame      uint64
}

// New creates a session for an upgraded connection and registers it with
// the watchdog.
func New(conn *websocket.Conn, sim *simulation.Simulation, wd *watchdog.Watchdog, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:             id,
		conn:           conn,
		sim:            sim,
		logger:         logger.With(zap.String("session_id", id)),
		wd:             wd,
		frames:         wd.Register(id),
		snapshotCh:     make(chan []byte, 1),
		controlCh:      make(chan []byte, controlBuffer),
		inboundCh:      make(chan []byte, controlBuffer),
		lastStatsFrame: math.MaxUint64,
	}
}

// ID returns the session identifier used in logs and the watchdog.
func (s *Session) ID() string {
	return s.id
}

// Run executes the session until the peer disconnects, the heartbeat times
// out, or the context is cancelled. It blocks for the session's lifetime.
func (s *Session) Run(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()
	defer s.wd.Unregister(s.id)
	defer s.conn.Close()

	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()

	s.logger.Info("session opened", zap.String("remote_addr", s.conn.RemoteAddr().String()))
	defer s.logger.Info("session closed")

	// Handshake: the first frame the peer sees is the active config.
	if data, err := protocol.EncodeConfig(s.sim.Config()); err == nil {
		s.enqueueControl(data)
	}

	go s.writePump()
	go s.readPump()
	s.eventLoop()
}

// eventLoop is the session actor: ticks and inbound control messages are
// handled serially, so a config echo is always enqueued before the next
// tick can emit a snapshot of the reconfigured state. time.Ticker re-arms
// from a fixed epoch, so the cadence does not drift cumulatively.
func (s *Session) eventLoop() {
	ticker := time.NewTicker(config.PhysicsPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case data := <-s.inboundCh:
			s.dispatch(data)
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Session) tick() {
	snap, stats := s.sim.Step()
	s.frames.Store(snap.FrameNumber)

	// A frame regression means the simulation was reset since the last
	// tick; restart the emission trackers.
	if snap.FrameNumber < s.lastFrame {
		s.lastFrame = snap.FrameNumber
		s.lastStatsFrame = math.MaxUint64
	}

	if snap.FrameNumber != s.lastFrame {
		s.lastFrame = snap.FrameNumber
		metrics.FramesTotal.Inc()
		metrics.StepDuration.Observe(stats.ComputationTimeMS / 1000)
	}

	now := time.Now()
	if now.Sub(s.lastSnapshot) >= s.sim.Config().SnapshotInterval() {
		if data, err := protocol.EncodeState(snap); err == nil {
			s.offerSnapshot(data)
		}
		s.lastSnapshot = now
	}

	// Guarded by the last emitted frame so a paused simulation does not
	// repeat the same stats record every tick.
	if snap.FrameNumber%config.StatsEveryFrames == 0 && snap.FrameNumber != s.lastStatsFrame {
		if data, err := protocol.EncodeStats(stats); err == nil {
			s.enqueueControl(data)
		}
		s.lastStatsFrame = snap.FrameNumber
	}
}

// offerSnapshot hands a snapshot to the writer without blocking. When the
// writer is behind, the frame is dropped; the next tick produces a fresher
// one.
func (s *Session) offerSnapshot(data []byte) {
	select {
	case s.snapshotCh <- data:
		metrics.SnapshotsTotal.Inc()
	default:
		metrics.SnapshotsDropped.Inc()
	}
}

// enqueueControl queues a frame that must not be dropped.
func (s *Session) enqueueControl(data []byte) {
	select {
	case s.controlCh <- data:
	case <-s.ctx.Done():
	}
}

// readPump consumes inbound frames and forwards them to the event loop in
// arrival order. The read deadline doubles as the heartbeat timeout: every
// pong extends it, and a silent peer fails the next read.
func (s *Session) readPump() {
	defer s.cancel()

	if err := s.conn.SetReadDeadline(time.Now().Add(config.ClientTimeout)); err != nil {
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(config.ClientTimeout))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			s.logger.Warn("ignoring non-text message", zap.Int("message_type", messageType))
			continue
		}
		// Inbound frames also prove liveness.
		if err := s.conn.SetReadDeadline(time.Now().Add(config.ClientTimeout)); err != nil {
			return
		}
		select {
		case s.inboundCh <- data:
		case <-s.ctx.Done():
			return
		}
	}
}

// dispatch routes one decoded control message into the state manager.
// Decoding errors are logged and dropped; they never terminate the session.
func (s *Session) dispatch(data []byte) {
	msg, err := protocol.DecodeControl(data)
	if err != nil {
		s.logger.Warn("dropping inbound message", zap.Error(err))
		return
	}

	switch msg.Type {
	case protocol.TypeUpdateConfig:
		newCfg := msg.Config
		if err := s.sim.UpdateConfig(&newCfg); err != nil {
			s.logger.Info("configuration rejected", zap.Error(err))
			if frame, encErr := protocol.EncodeError(err.Error()); encErr == nil {
				s.enqueueControl(frame)
			}
			return
		}
		if frame, encErr := protocol.EncodeConfig(s.sim.Config()); encErr == nil {
			s.enqueueControl(frame)
		}

	case protocol.TypeReset:
		s.sim.Reset()
		// Immediate snapshot so the peer sees the fresh state without
		// waiting for the next throttle window.
		if frame, encErr := protocol.EncodeState(s.sim.Snapshot()); encErr == nil {
			s.offerSnapshot(frame)
		}

	case protocol.TypePause:
		s.sim.SetPaused(true)

	case protocol.TypeResume:
		s.sim.SetPaused(false)
	}
}

// writePump is the only goroutine writing to the connection. Control frames
// take priority over snapshots so a Config echo is never reordered behind
// queued particle data.
func (s *Session) writePump() {
	defer s.cancel()

	pingTicker := time.NewTicker(config.HeartbeatPeriod)
	defer pingTicker.Stop()

	for {
		// Drain pending control frames first.
		select {
		case data := <-s.controlCh:
			if !s.write(data) {
				return
			}
			continue
		default:
		}

		select {
		case <-s.ctx.Done():
			deadline := time.Now().Add(writeWait)
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		case data := <-s.controlCh:
			if !s.write(data) {
				return
			}
		case data := <-s.snapshotCh:
			if !s.write(data) {
				return
			}
		case <-pingTicker.C:
			deadline := time.Now().Add(writeWait)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Warn("heartbeat write failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *Session) write(data []byte) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Warn("websocket write failed", zap.Error(err))
		return false
	}
	return true
}
