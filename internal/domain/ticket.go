package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	StatusNew         TicketStatus = "new"
	StatusInProgress  TicketStatus = "in_progress"
	StatusWaitingUser TicketStatus = "waiting_user"
	StatusDone        TicketStatus = "done"
	StatusRejected    TicketStatus = "rejected"
)

var statuses = map[TicketStatus]struct{}{
	StatusNew:         {},
	StatusInProgress:  {},
	StatusWaitingUser: {},
	StatusDone:        {},
	StatusRejected:    {},
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(raw)
	if _, ok := statuses[status]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return status, nil
}

// TicketCategory enumerates issue categories produced by classification.
type TicketCategory string

const (
	CategorySoftware       TicketCategory = "software"
	CategoryNetwork        TicketCategory = "network"
	CategoryInfrastructure TicketCategory = "infrastructure"
	CategorySecurity       TicketCategory = "security"
	CategoryHardware       TicketCategory = "hardware"
	CategoryUnknown        TicketCategory = "unknown"
)

var categories = map[TicketCategory]struct{}{
	CategorySoftware:       {},
	CategoryNetwork:        {},
	CategoryInfrastructure: {},
	CategorySecurity:       {},
	CategoryHardware:       {},
	CategoryUnknown:        {},
}

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (TicketCategory, error) {
	category := TicketCategory(raw)
	if _, ok := categories[category]; !ok {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return category, nil
}

// Priority bounds. DefaultPriority applies when the classifier abstains.
const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// ParsePriority validates a raw priority value.
func ParsePriority(raw int) (int, error) {
	if raw < MinPriority || raw > MaxPriority {
		return 0, fmt.Errorf("priority %d outside [%d,%d]", raw, MinPriority, MaxPriority)
	}
	return raw, nil
}

// Ticket is the aggregate for filed issues. OwnerID is set at creation and
// never changes; Comments and History are append-only.
type Ticket struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      TicketStatus
	Category    TicketCategory
	Priority    int
	AssignedTo  Role
	Comments    []Comment
	Attachments []Attachment
	History     []HistoryEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is one entry in a ticket's conversation thread.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Message   string
	CreatedAt time.Time
}

// Attachment stores file metadata attached to a ticket. Uploads themselves
// are handled outside this service.
type Attachment struct {
	ID         string
	TicketID   string
	Filename   string
	URL        string
	UploadedAt time.Time
}
