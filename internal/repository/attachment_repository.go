package repository

import (
	"context"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

func listAttachments(ctx context.Context, q querier, ticketID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, filename, url, uploaded_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY uploaded_at ASC`
	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(
			&att.ID,
			&att.TicketID,
			&att.Filename,
			&att.URL,
			&att.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
