package collector

import "sync"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Reporter receives the user-visible progress of a collection
type Reporter interface {
	Report(level Level, text string)
}

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Messages records reported messages in order
type Messages struct {
	mu    sync.Mutex
	items []Message
}

func (m *Messages) Report(level Level, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, Message{Level: level, Text: text})
}

func (m *Messages) Items() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.items...)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(level Level, text string)

func (f ReporterFunc) Report(level Level, text string) {
	f(level, text)
}
