package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, student_id, vehicle_card_id, window_start, window_end, justification, status, decided_by, decided_at, created_at`

// overnightRequestRepository - PostgreSQL реализация OvernightRequestRepository
type overnightRequestRepository struct {
	db *pgxpool.Pool
}

// NewOvernightRequestRepository создает новый экземпляр overnightRequestRepository
func NewOvernightRequestRepository(db *pgxpool.Pool) repository.OvernightRequestRepository {
	return &overnightRequestRepository{db: db}
}

func (r *overnightRequestRepository) Create(ctx context.Context, req *domain.OvernightRequest) error {
	query := `
		INSERT INTO overnight_requests (id, student_id, vehicle_card_id, window_start, window_end, justification, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = domain.RequestPending
	req.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.StudentID,
		req.VehicleCardID,
		req.WindowStart,
		req.WindowEnd,
		req.Justification,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCardNotFound
		}
		return err
	}

	return nil
}

func (r *overnightRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OvernightRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM overnight_requests WHERE id = $1`
	return scanRequest(r.db.QueryRow(ctx, query, id))
}

func (r *overnightRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.OvernightRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM overnight_requests
		WHERE ($1::uuid IS NULL OR student_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.StudentID, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *overnightRequestRepository) ApprovedByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.OvernightRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM overnight_requests
		WHERE vehicle_card_id = $1 AND status = 'Approved'
		ORDER BY window_start
	`

	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *overnightRequestRepository) SaveDecision(ctx context.Context, req *domain.OvernightRequest) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin decision: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Блокируем карточку: одобрения по одной карточке выполняются последовательно
	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM vehicle_cards WHERE id = $1 FOR UPDATE`, req.VehicleCardID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCardNotFound
		}
		return err
	}

	if req.Status == domain.RequestApproved {
		var overlaps bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM overnight_requests
				WHERE vehicle_card_id = $1
				  AND status = 'Approved'
				  AND id <> $2
				  AND window_start <= $4
				  AND window_end >= $3
			)
		`, req.VehicleCardID, req.ID, req.WindowStart, req.WindowEnd).Scan(&overlaps)
		if err != nil {
			return err
		}
		if overlaps {
			return domain.ErrOverlappingWindow
		}
	}

	result, err := tx.Exec(ctx, `
		UPDATE overnight_requests
		SET status = $2, decided_by = $3, decided_at = $4
		WHERE id = $1 AND status = 'Pending'
	`, req.ID, req.Status, req.DecidedBy, req.DecidedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRequestAlreadyDecided
	}

	return tx.Commit(ctx)
}

func collectRequests(rows pgx.Rows) ([]*domain.OvernightRequest, error) {
	defer rows.Close()

	var requests []*domain.OvernightRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (*domain.OvernightRequest, error) {
	req := &domain.OvernightRequest{}
	err := row.Scan(
		&req.ID,
		&req.StudentID,
		&req.VehicleCardID,
		&req.WindowStart,
		&req.WindowEnd,
		&req.Justification,
		&req.Status,
		&req.DecidedBy,
		&req.DecidedAt,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}
