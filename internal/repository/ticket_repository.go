package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so row helpers can
// run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OwnerID    *string
	Status     *domain.TicketStatus
	Category   *domain.TicketCategory
	Priority   *int
	AssignedTo *domain.Role
	Limit      int
	Offset     int
}

// MutateFunc applies field changes to a locked ticket row and returns the
// history entries the mutation produces. Returning an error aborts the
// transaction.
type MutateFunc func(ticket *domain.Ticket) ([]domain.HistoryEntry, error)

// TicketRepository encapsulates ticket persistence. Every mutation commits
// its paired history entries in the same transaction, so an audit record can
// never be lost to a partial write.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Ticket, error)
	AddComment(ctx context.Context, ticketID string, comment *domain.Comment, entry *domain.HistoryEntry) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, owner_id, title, description, status, category, priority, assigned_to, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_id, title, description, status, category, priority, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Category,
		ticket.Priority,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicketRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if ticket.Comments, err = listComments(ctx, r.pool, id); err != nil {
		return nil, err
	}
	if ticket.Attachments, err = listAttachments(ctx, r.pool, id); err != nil {
		return nil, err
	}
	if ticket.History, err = listHistory(ctx, r.pool, id); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 FOR UPDATE`
	ticket, err := scanTicketRow(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	entries, err := fn(ticket)
	if err != nil {
		return nil, err
	}

	const update = `
        UPDATE tickets SET status=$1, category=$2, priority=$3, assigned_to=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		ticket.Status,
		ticket.Category,
		ticket.Priority,
		ticket.AssignedTo,
		id,
	).Scan(&ticket.UpdatedAt); err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].TicketID = id
		if err := insertHistory(ctx, tx, &entries[i]); err != nil {
			return nil, err
		}
	}

	if ticket.History, err = listHistory(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) AddComment(ctx context.Context, ticketID string, comment *domain.Comment, entry *domain.HistoryEntry) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 FOR UPDATE`
	ticket, err := scanTicketRow(tx.QueryRow(ctx, query, ticketID))
	if err != nil {
		return nil, err
	}

	comment.TicketID = ticketID
	if err := insertComment(ctx, tx, comment); err != nil {
		return nil, err
	}
	if entry != nil {
		entry.TicketID = ticketID
		if err := insertHistory(ctx, tx, entry); err != nil {
			return nil, err
		}
	}
	const touch = `UPDATE tickets SET updated_at=NOW() WHERE id=$1 RETURNING updated_at`
	if err := tx.QueryRow(ctx, touch, ticketID).Scan(&ticket.UpdatedAt); err != nil {
		return nil, err
	}

	if ticket.Comments, err = listComments(ctx, tx, ticketID); err != nil {
		return nil, err
	}
	if ticket.History, err = listHistory(ctx, tx, ticketID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Category,
		&ticket.Priority,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Category,
			&ticket.Priority,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
