package state

import "sync"

// Manager keeps one Draft per chat. Each chat's conversation is handled
// one message at a time, but different chats interleave freely, so the
// map is guarded.
type Manager struct {
	mu     sync.RWMutex
	drafts map[int64]*Draft
}

func NewManager() *Manager {
	return &Manager{
		drafts: make(map[int64]*Draft),
	}
}

// Step returns the chat's current step. Unknown chats are at StepStart.
func (m *Manager) Step(chatID int64) Step {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if draft, ok := m.drafts[chatID]; ok {
		return draft.Step
	}
	return StepStart
}

// Get returns a copy of the chat's draft.
func (m *Manager) Get(chatID int64) Draft {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if draft, ok := m.drafts[chatID]; ok {
		return *draft
	}
	return Draft{}
}

// Update applies fn to the chat's draft, creating it if needed.
func (m *Manager) Update(chatID int64, fn func(*Draft)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, ok := m.drafts[chatID]
	if !ok {
		draft = &Draft{}
		m.drafts[chatID] = draft
	}
	fn(draft)

	if draft.Step == StepStart {
		// Back at the menu: the scratch data has served its purpose.
		delete(m.drafts, chatID)
	}
}

// Reset drops the chat's draft entirely.
func (m *Manager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, chatID)
}
