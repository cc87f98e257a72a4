package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval. When heartbeats keep
// coming but no span ends, a phase is stuck (usually on a huge file).
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat returns nil when tracing is off or interval <= 0.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: t, interval: interval, stop: make(chan struct{})}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()
	tick := time.NewTicker(h.interval)
	defer tick.Stop()
	gid := goroutineID()
	for n := 1; ; n++ {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		}
	}
}

// Stop is idempotent and waits for the goroutine to exit.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.wg.Wait()
}
