package domain

import "time"

// HistoryAction captures what changed in a history entry.
type HistoryAction string

const (
	ActionStatusChange   HistoryAction = "status_change"
	ActionCategoryChange HistoryAction = "category_change"
	ActionPriorityChange HistoryAction = "priority_change"
	ActionAssigned       HistoryAction = "assigned"
	ActionCommentAdded   HistoryAction = "comment_added"
)

// HistoryEntry is an immutable audit record of one ticket mutation.
type HistoryEntry struct {
	ID        string
	TicketID  string
	Action    HistoryAction
	OldValue  string
	NewValue  string
	ChangedBy string
	CreatedAt time.Time
}
