package domain

import "time"

// Exchange is one question/answer turn kept in a session's history.
type Exchange struct {
	Question string
	Answer   string
	Asked    time.Time
}

// Session is the explicit per-caller request context. It replaces
// UI-framework session state: chat history, the currently selected
// category, and the question being asked live here, with the lifecycle
// owned by the caller (created per user session, discarded on session end).
type Session struct {
	// History accumulates completed exchanges, oldest first.
	History []Exchange

	// Category is the caller's currently selected category, used as the
	// default filter when QueryOptions carries none.
	Category Category

	// Question is the question currently being asked.
	Question string
}

// NewSession creates an empty session scoped to a category.
func NewSession(category Category) *Session {
	return &Session{Category: category}
}

// Record appends a completed exchange to the history.
func (s *Session) Record(question, answer string) {
	s.History = append(s.History, Exchange{
		Question: question,
		Answer:   answer,
		Asked:    time.Now(),
	})
}
