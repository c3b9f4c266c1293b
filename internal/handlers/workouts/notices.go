package workouts

import "sync"

// Notice is a message for the user.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Notices queues alerts and warnings until the browser collects them.
type Notices struct {
	mu      sync.Mutex
	pending []Notice
}

func (n *Notices) Alert(msg string) { n.push("alert", msg) }
func (n *Notices) Warn(msg string)  { n.push("warning", msg) }

func (n *Notices) push(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, Notice{Level: level, Message: msg})
}

// Drain returns and forgets every queued notice.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
