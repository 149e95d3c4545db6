package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `s.id, s.vehicle_card_id, s.entry_at, s.exit_at, s.status, s.fee, s.payment_state, s.paid_at, s.scanned_in_by, s.scanned_out_by, s.paid_by`

// parkingSessionRepository - PostgreSQL реализация ParkingSessionRepository
type parkingSessionRepository struct {
	db *pgxpool.Pool
}

// NewParkingSessionRepository создает новый экземпляр parkingSessionRepository
func NewParkingSessionRepository(db *pgxpool.Pool) repository.ParkingSessionRepository {
	return &parkingSessionRepository{db: db}
}

func (r *parkingSessionRepository) Create(ctx context.Context, session *domain.ParkingSession) error {
	query := `
		INSERT INTO parking_sessions (id, vehicle_card_id, entry_at, status, fee, payment_state, scanned_in_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.PaymentState = domain.PaymentUnpaid

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.VehicleCardID,
		session.EntryAt,
		session.Status,
		session.Fee,
		session.PaymentState,
		session.ScannedInBy,
	)
	if err != nil {
		// Частичный уникальный индекс гарантирует одну открытую сессию на карточку
		if isUniqueViolation(err, openSessionIndex) {
			return domain.ErrDuplicateOpenSession
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCardNotFound
		}
		return err
	}

	return nil
}

func (r *parkingSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions s WHERE s.id = $1`
	return scanSession(r.db.QueryRow(ctx, query, id))
}

func (r *parkingSessionRepository) GetOpenByCard(ctx context.Context, cardID uuid.UUID) (*domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions s WHERE s.vehicle_card_id = $1 AND s.exit_at IS NULL`

	session, err := scanSession(r.db.QueryRow(ctx, query, cardID))
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrNoOpenSession
	}
	return session, err
}

func (r *parkingSessionRepository) Close(ctx context.Context, session *domain.ParkingSession) error {
	// Условный UPDATE: из двух параллельных сканов выхода строку получит только один
	query := `
		UPDATE parking_sessions
		SET exit_at = $2, scanned_out_by = $3, status = $4, fee = $5
		WHERE id = $1 AND exit_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		session.ID,
		session.ExitAt,
		session.ScannedOutBy,
		session.Status,
		session.Fee,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNoOpenSession
	}

	return nil
}

func (r *parkingSessionRepository) MarkPaid(ctx context.Context, session *domain.ParkingSession) (bool, error) {
	query := `
		UPDATE parking_sessions
		SET payment_state = 'Paid', status = $2, fee = $3, paid_at = $4, paid_by = $5
		WHERE id = $1 AND payment_state = 'Unpaid' AND exit_at IS NOT NULL
	`

	result, err := r.db.Exec(ctx, query,
		session.ID,
		session.Status,
		session.Fee,
		session.PaidAt,
		session.PaidBy,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() == 1, nil
}

func (r *parkingSessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `, ` + prefixed("c", cardColumns) + `
		FROM parking_sessions s
		JOIN vehicle_cards c ON c.id = s.vehicle_card_id
		WHERE ($1::uuid IS NULL OR s.vehicle_card_id = $1)
		  AND ($2::uuid IS NULL OR c.student_id = $2)
		  AND (
		        $3 = ''
		     OR ($3 = 'Open' AND s.exit_at IS NULL)
		     OR ($3 = 'Closed/Unpaid' AND s.exit_at IS NOT NULL AND s.payment_state = 'Unpaid')
		     OR ($3 = 'Closed/Paid' AND s.payment_state = 'Paid')
		  )
		ORDER BY s.entry_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Query(ctx, query,
		filter.CardID,
		filter.StudentID,
		string(filter.State),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ParkingSession
	for rows.Next() {
		s := &domain.ParkingSession{}
		c := &domain.VehicleCard{}
		err := rows.Scan(
			&s.ID, &s.VehicleCardID, &s.EntryAt, &s.ExitAt, &s.Status, &s.Fee,
			&s.PaymentState, &s.PaidAt, &s.ScannedInBy, &s.ScannedOutBy, &s.PaidBy,
			&c.ID, &c.StudentID, &c.RegistrationPhotoURL, &c.StudentCardPhotoURL,
			&c.VehiclePhotoURL, &c.QRCodeURL, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		s.VehicleCard = c
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (r *parkingSessionRepository) LatestClosed(ctx context.Context, cardID uuid.UUID) (*domain.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM parking_sessions s
		WHERE s.vehicle_card_id = $1 AND s.exit_at IS NOT NULL
		ORDER BY s.exit_at DESC
		LIMIT 1
	`
	return scanSession(r.db.QueryRow(ctx, query, cardID))
}

func (r *parkingSessionRepository) ListActiveBetween(ctx context.Context, from, to time.Time) ([]*domain.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM parking_sessions s
		WHERE (s.entry_at >= $1 AND s.entry_at < $2)
		   OR (s.exit_at >= $1 AND s.exit_at < $2)
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ParkingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*domain.ParkingSession, error) {
	s := &domain.ParkingSession{}
	err := row.Scan(
		&s.ID,
		&s.VehicleCardID,
		&s.EntryAt,
		&s.ExitAt,
		&s.Status,
		&s.Fee,
		&s.PaymentState,
		&s.PaidAt,
		&s.ScannedInBy,
		&s.ScannedOutBy,
		&s.PaidBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}
