// Package connectivity tracks online/offline transitions and offers a
// best-effort reachability probe. The monitor only observes; nothing in the
// data path depends on it being reachable.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yourname/healthtrack/internal"
)

type Monitor struct {
	client   *resty.Client
	probeURL string
	logger   internal.Logger

	mu      sync.Mutex
	offline bool
	subs    map[int]func(online bool)
	nextSub int
}

func NewMonitor(probeURL string, timeout time.Duration, logger internal.Logger) *Monitor {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Cache-Control", "no-store")
	return &Monitor{
		client:   client,
		probeURL: probeURL,
		logger:   logger,
		subs:     make(map[int]func(online bool)),
	}
}

// IsOffline reports the current flag. The monitor starts online; the host
// feeds transitions through SetOnline/SetOffline.
func (m *Monitor) IsOffline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offline
}

func (m *Monitor) SetOnline()  { m.transition(false) }
func (m *Monitor) SetOffline() { m.transition(true) }

func (m *Monitor) transition(offline bool) {
	m.mu.Lock()
	if m.offline == offline {
		m.mu.Unlock()
		return
	}
	m.offline = offline
	subs := make([]func(online bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(!offline)
	}
}

// Subscribe registers a transition listener and returns its unsubscribe func.
func (m *Monitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// CheckConnection performs a lightweight reachability request. Any failure,
// including the offline case, reports unreachable; the probe never raises.
func (m *Monitor) CheckConnection(ctx context.Context) bool {
	if m.IsOffline() {
		return false
	}
	_, err := m.client.R().SetContext(ctx).Head(m.probeURL)
	if err != nil {
		m.logger.Warnf("connectivity: probe failed: %v", err)
		return false
	}
	return true
}
