package listview

import (
	"sync"
	"time"
)

// Kind of a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Display durations of the transient notifications.
const (
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
)

// Notification is a transient on-screen message.
type Notification struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	DurationMs int64  `json:"durationMs"`
}

// Notifier queues notifications until the screen drains them.
type Notifier struct {
	mu    sync.Mutex
	queue []Notification
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Success(msg string) {
	n.push(Notification{Kind: Success, Message: msg, DurationMs: SuccessDuration.Milliseconds()})
}

func (n *Notifier) Error(msg string) {
	n.push(Notification{Kind: Error, Message: msg, DurationMs: ErrorDuration.Milliseconds()})
}

func (n *Notifier) push(note Notification) {
	n.mu.Lock()
	n.queue = append(n.queue, note)
	n.mu.Unlock()
}

// Drain returns and clears the pending notifications.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.queue
	n.queue = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
