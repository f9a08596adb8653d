package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourname/healthtrack/internal"
)

func TestCheckConnectionReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, time.Second, internal.NewNopLogger())
	assert.True(t, m.CheckConnection(context.Background()))
}

func TestCheckConnectionSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // probe target gone

	m := NewMonitor(srv.URL, 50*time.Millisecond, internal.NewNopLogger())
	assert.False(t, m.CheckConnection(context.Background()))
}

func TestCheckConnectionShortCircuitsWhenOffline(t *testing.T) {
	var probed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = true
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, time.Second, internal.NewNopLogger())
	m.SetOffline()
	assert.False(t, m.CheckConnection(context.Background()))
	assert.False(t, probed)
}

func TestTransitionsNotifySubscribers(t *testing.T) {
	m := NewMonitor("http://127.0.0.1:0", time.Second, internal.NewNopLogger())

	var events []bool
	unsubscribe := m.Subscribe(func(online bool) {
		events = append(events, online)
	})

	m.SetOffline()
	m.SetOffline() // duplicate transition is not re-announced
	m.SetOnline()

	assert.Equal(t, []bool{false, true}, events)

	unsubscribe()
	m.SetOffline()
	assert.Len(t, events, 2)
}

func TestMonitorStartsOnline(t *testing.T) {
	m := NewMonitor("http://127.0.0.1:0", time.Second, internal.NewNopLogger())
	assert.False(t, m.IsOffline())
}
