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

const cardColumns = `id, student_id, registration_photo_url, student_card_photo_url, vehicle_photo_url, qr_code_url, created_at, updated_at`

// vehicleCardRepository - PostgreSQL реализация VehicleCardRepository
type vehicleCardRepository struct {
	db *pgxpool.Pool
}

// NewVehicleCardRepository создает новый экземпляр vehicleCardRepository
func NewVehicleCardRepository(db *pgxpool.Pool) repository.VehicleCardRepository {
	return &vehicleCardRepository{db: db}
}

func (r *vehicleCardRepository) Create(ctx context.Context, card *domain.VehicleCard, limit int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create card: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Блокируем студента, чтобы параллельные запросы не обошли лимит
	var studentID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, card.StudentID).Scan(&studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_cards WHERE student_id = $1`, card.StudentID).Scan(&count); err != nil {
		return err
	}
	if count >= limit {
		return domain.ErrCardLimitReached
	}

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		card.ID,
		card.StudentID,
		card.RegistrationPhotoURL,
		card.StudentCardPhotoURL,
		card.VehiclePhotoURL,
		card.QRCodeURL,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *vehicleCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleCard, error) {
	query := `SELECT ` + cardColumns + ` FROM vehicle_cards WHERE id = $1`
	return scanCard(r.db.QueryRow(ctx, query, id))
}

func (r *vehicleCardRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.VehicleCard, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM vehicle_cards
		WHERE student_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.VehicleCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func (r *vehicleCardRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_cards WHERE student_id = $1`, studentID).Scan(&count)
	return count, err
}

func (r *vehicleCardRepository) Update(ctx context.Context, card *domain.VehicleCard) error {
	query := `
		UPDATE vehicle_cards
		SET registration_photo_url = $2, student_card_photo_url = $3, vehicle_photo_url = $4, updated_at = $5
		WHERE id = $1
	`

	card.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		card.ID,
		card.RegistrationPhotoURL,
		card.StudentCardPhotoURL,
		card.VehiclePhotoURL,
		card.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func (r *vehicleCardRepository) SetQRCode(ctx context.Context, id uuid.UUID, url string) error {
	query := `
		UPDATE vehicle_cards
		SET qr_code_url = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, url, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func (r *vehicleCardRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM overnight_requests WHERE vehicle_card_id = $1)
		    OR EXISTS (SELECT 1 FROM parking_sessions WHERE vehicle_card_id = $1 AND exit_at IS NULL)
	`

	var referenced bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&referenced); err != nil {
		return false, err
	}
	return referenced, nil
}

func (r *vehicleCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM vehicle_cards WHERE id = $1`, id)
	if err != nil {
		// Закрытые сессии ссылаются на карточку через ON DELETE RESTRICT
		if isForeignKeyViolation(err) {
			return domain.ErrCardInUse
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func scanCard(row pgx.Row) (*domain.VehicleCard, error) {
	card := &domain.VehicleCard{}
	err := row.Scan(
		&card.ID,
		&card.StudentID,
		&card.RegistrationPhotoURL,
		&card.StudentCardPhotoURL,
		&card.VehiclePhotoURL,
		&card.QRCodeURL,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}
