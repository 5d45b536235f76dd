package history

import "eos-mcp/internal/feedback"

// Store owns the general feedback log and the operator action log. The two
// logs are locked independently.
type Store struct {
	Feedback *Log[feedback.Message]
	Actions  *Log[feedback.Action]
}

func NewStore(capacity int) *Store {
	return &Store{
		Feedback: NewLog[feedback.Message](capacity),
		Actions:  NewLog[feedback.Action](capacity),
	}
}

// Record appends a classified message. Discarded traffic is ignored and
// user actions are also added to the action log. It reports whether the
// message was kept.
func (s *Store) Record(msg feedback.Message) bool {
	if msg.Category == feedback.CategoryDiscard {
		return false
	}
	s.Feedback.Append(msg)
	if msg.Category == feedback.CategoryUserAction {
		s.Actions.Append(feedback.ActionFrom(msg))
	}
	return true
}

// Clear empties both logs.
func (s *Store) Clear() {
	s.Feedback.Clear()
	s.Actions.Clear()
}
