// Package receiver listens for OSC feedback from an Eos console over UDP and
// records classified messages into the history store.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"eos-mcp/internal/feedback"
	"eos-mcp/internal/history"
)

const (
	DefaultPort = 3033
	DefaultBind = "0.0.0.0"

	maxDatagramSize = 65536

	minErrorBackoff = 10 * time.Millisecond
	maxErrorBackoff = time.Second
)

// State is the receiver lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateListening
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	default:
		return "unknown"
	}
}

// BindError means the listening socket could not be acquired.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind udp %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Deps holds the receiver's configuration and collaborators.
type Deps struct {
	Store       *history.Store // required
	Bind        string
	Port        int
	Metrics     *Metrics               // optional
	Observer    func(feedback.Message) // optional, called after a message is stored
	LogMessages bool
	Now         func() time.Time
}

// Stats is a point-in-time copy of the receiver counters.
type Stats struct {
	PacketsReceived int64     `json:"packets_received"`
	DecodeErrors    int64     `json:"decode_errors"`
	Discarded       int64     `json:"discarded"`
	Stored          int64     `json:"stored"`
	SocketErrors    int64     `json:"socket_errors"`
	LastActivity    time.Time `json:"last_activity"`
}

// Receiver is the long-lived UDP listener. It is the only writer of the
// store apart from explicit resets.
type Receiver struct {
	store       *history.Store
	bind        string
	port        int
	metrics     *Metrics
	observer    func(feedback.Message)
	logMessages bool
	now         func() time.Time

	mu     sync.Mutex
	state  State
	conn   net.PacketConn
	cancel context.CancelFunc
	done   chan struct{}

	packets      atomic.Int64
	decodeErrors atomic.Int64
	discarded    atomic.Int64
	stored       atomic.Int64
	socketErrors atomic.Int64
	lastActivity atomic.Int64 // unix nanos
}

func New(deps Deps) *Receiver {
	bind := deps.Bind
	if bind == "" {
		bind = DefaultBind
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Receiver{
		store:       deps.Store,
		bind:        bind,
		port:        deps.Port,
		metrics:     deps.Metrics,
		observer:    deps.Observer,
		logMessages: deps.LogMessages,
		now:         now,
	}
}

// Start binds the socket and launches the receive loop. It returns a
// *BindError if the port is unavailable and does not retry. Calling Start
// while already listening is a no-op. Cancelling ctx stops the receiver.
func (r *Receiver) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateStopped {
		return nil
	}
	r.state = StateStarting

	addr := net.JoinHostPort(r.bind, strconv.Itoa(r.port))
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		r.state = StateStopped
		return &BindError{Addr: addr, Err: err}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.conn = conn
	r.cancel = cancel
	r.done = done
	r.state = StateListening

	// Closing the socket is what unblocks ReadFrom.
	go func() {
		<-loopCtx.Done()
		_ = conn.Close()
	}()
	go r.readLoop(loopCtx, conn, done)

	log.Printf("📡 OSC feedback receiver listening on %s", conn.LocalAddr())
	return nil
}

// Stop cancels the receive loop and waits up to timeout for it to exit.
func (r *Receiver) Stop(timeout time.Duration) error {
	r.mu.Lock()
	if r.state != StateListening {
		r.mu.Unlock()
		return nil
	}
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("receiver stop timeout after %v", timeout)
	}
}

// Done is closed when the current receive loop exits. It is nil if the
// receiver was never started.
func (r *Receiver) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *Receiver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Addr is the bound local address, or nil when not listening.
func (r *Receiver) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Port is the configured port.
func (r *Receiver) Port() int { return r.port }

func (r *Receiver) Stats() Stats {
	s := Stats{
		PacketsReceived: r.packets.Load(),
		DecodeErrors:    r.decodeErrors.Load(),
		Discarded:       r.discarded.Load(),
		Stored:          r.stored.Load(),
		SocketErrors:    r.socketErrors.Load(),
	}
	if ns := r.lastActivity.Load(); ns != 0 {
		s.LastActivity = time.Unix(0, ns)
	}
	return s
}

func (r *Receiver) readLoop(ctx context.Context, conn net.PacketConn, done chan struct{}) {
	defer func() {
		r.mu.Lock()
		r.state = StateStopped
		r.conn = nil
		r.cancel()
		r.mu.Unlock()
		close(done)
		log.Printf("📡 OSC feedback receiver stopped")
	}()

	buf := make([]byte, maxDatagramSize)
	var backoff time.Duration
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			r.socketErrors.Add(1)
			if r.metrics != nil {
				r.metrics.socketErrors.Inc()
			}
			backoff = nextBackoff(backoff)
			log.Printf("⚠️ OSC receive error (retrying in %v): %v", backoff, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		r.handle(buf[:n])
	}
}

// nextBackoff doubles the wait between consecutive socket errors.
func nextBackoff(d time.Duration) time.Duration {
	if d < minErrorBackoff {
		return minErrorBackoff
	}
	if d *= 2; d > maxErrorBackoff {
		return maxErrorBackoff
	}
	return d
}

func (r *Receiver) handle(data []byte) {
	now := r.now()
	r.packets.Add(1)
	r.lastActivity.Store(now.UnixNano())
	if r.metrics != nil {
		r.metrics.packetsReceived.Inc()
		r.metrics.bytesReceived.Add(float64(len(data)))
		r.metrics.lastActivity.Set(float64(now.Unix()))
	}

	datagrams, err := Decode(data)
	if err != nil {
		r.decodeErrors.Add(1)
		if r.metrics != nil {
			r.metrics.decodeErrors.Inc()
		}
		log.Printf("⚠️ Skipping malformed OSC datagram: %v", err)
		return
	}

	for _, d := range datagrams {
		msg := feedback.NewMessage(now, d.Topic, d.Arguments)
		if !r.store.Record(msg) {
			r.discarded.Add(1)
			if r.metrics != nil {
				r.metrics.discarded.Inc()
			}
			continue
		}
		r.stored.Add(1)
		if r.metrics != nil {
			r.metrics.stored.WithLabelValues(string(msg.Category)).Inc()
		}
		r.logMessage(msg)
		if r.observer != nil {
			r.observer(msg)
		}
	}
}

func (r *Receiver) logMessage(msg feedback.Message) {
	switch {
	case msg.Category == feedback.CategoryError:
		log.Printf("⚠️ Eos error: %s", msg.Content())
	case msg.Category == feedback.CategoryUserAction:
		log.Printf("🎛️ Operator action: %s = %s", msg.Topic, msg.Content())
	case r.logMessages:
		log.Printf("📥 %s %s %s", msg.Category, msg.Topic, msg.Content())
	}
}
