package notice

import "sync"

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a non-blocking message for the caller, e.g. a stale id or a
// persistence failure.
type Notice struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Sink receives notices.
type Sink interface {
	Notify(n Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notice)

func (f SinkFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Sink = SinkFunc(func(Notice) {})

// Warn builds a warning notice.
func Warn(code, message string) Notice {
	return Notice{Level: LevelWarning, Code: code, Message: message}
}

// Error builds an error notice.
func Error(code, message string) Notice {
	return Notice{Level: LevelError, Code: code, Message: message}
}

// Recorder buffers notices until drained.
type Recorder struct {
	mu    sync.Mutex
	items []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Drain returns and clears buffered notices.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}
