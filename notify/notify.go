package notify

import (
	"sync"
	"time"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notice is a transient, user-facing notification (a toast).
type Notice struct {
	Level   string
	Message string
	At      time.Time
}

// Notifier is what stores use to surface transient action results.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Hub fans notices out to subscribers. The presentation layer subscribes
// once and renders whatever arrives; stores never block on slow consumers.
type Hub struct {
	mu   sync.Mutex
	subs []chan Notice
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe returns a buffered channel receiving every subsequent notice.
func (h *Hub) Subscribe() <-chan Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Notice, 32)
	h.subs = append(h.subs, ch)
	return ch
}

func (h *Hub) publish(level, message string) {
	n := Notice{Level: level, Message: message, At: time.Now()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default: // drop rather than block a store action
		}
	}
}

func (h *Hub) Success(message string) { h.publish(LevelSuccess, message) }
func (h *Hub) Error(message string)   { h.publish(LevelError, message) }
func (h *Hub) Info(message string)    { h.publish(LevelInfo, message) }

// Recorder captures notices for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	Notices []Notice
}

func (r *Recorder) record(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, Notice{Level: level, Message: message, At: time.Now()})
}

func (r *Recorder) Success(message string) { r.record(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.record(LevelError, message) }
func (r *Recorder) Info(message string)    { r.record(LevelInfo, message) }

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		out[i] = n.Message
	}
	return out
}
