package repository

import (
	"context"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

// insertHistory appends one audit entry. Callers mutating ticket fields run
// it on the same transaction as the field update.
func insertHistory(ctx context.Context, q querier, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, action, old_value, new_value, changed_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		entry.TicketID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func listHistory(ctx context.Context, q querier, ticketID string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, ticket_id, action, old_value, new_value, changed_by, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
