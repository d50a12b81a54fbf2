package repository

import (
	"context"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

func insertComment(ctx context.Context, q querier, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_id, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Message,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func listComments(ctx context.Context, q querier, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_id, message, created_at
        FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Message,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
