// Package memory keeps a bounded conversation history.
package memory

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// DefaultLimit is the number of turns kept, six exchanges.
const DefaultLimit = 12

// Roles of a Turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the conversation.
type Turn struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Memory is a FIFO of turns. Once Limit is exceeded the oldest turns are
// dropped. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	limit int
	turns []Turn
}

// New creates a memory holding at most limit turns. The limit must be a
// positive even number so that exchanges are never split.
func New(limit int) (*Memory, error) {
	if limit <= 0 || limit%2 != 0 {
		return nil, errors.Newf("memory limit must be a positive even number, got %d", limit)
	}
	return &Memory{limit: limit, turns: make([]Turn, 0, limit+2)}, nil
}

// Default creates a memory with DefaultLimit.
func Default() *Memory {
	m, _ := New(DefaultLimit)
	return m
}

// Append records one exchange, then trims to the limit.
func (m *Memory) Append(user, assistant string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns,
		Turn{Role: RoleUser, Content: user},
		Turn{Role: RoleAssistant, Content: assistant},
	)
	if over := len(m.turns) - m.limit; over > 0 {
		// shift in place so the backing array does not grow without bound
		n := copy(m.turns, m.turns[over:])
		clear(m.turns[n:])
		m.turns = m.turns[:n]
	}
}

// Turns returns a copy of the history, oldest first.
func (m *Memory) Turns() []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Turn(nil), m.turns...)
}

// Len returns the number of stored turns.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}

// Limit returns the configured bound.
func (m *Memory) Limit() int {
	return m.limit
}

// Reset drops all turns.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.turns)
	m.turns = m.turns[:0]
}
