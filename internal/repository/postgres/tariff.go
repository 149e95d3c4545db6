package postgres

import (
	"context"
	"errors"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tariffRepository хранит единственную строку тарифа (id = 1)
type tariffRepository struct {
	db *pgxpool.Pool
}

// NewTariffRepository создает новый экземпляр tariffRepository
func NewTariffRepository(db *pgxpool.Pool) repository.TariffRepository {
	return &tariffRepository{db: db}
}

func (r *tariffRepository) Get(ctx context.Context) (*domain.Tariff, error) {
	query := `
		SELECT regular_fee, overnight_fee, penalty_fee, updated_at, updated_by
		FROM tariff
		WHERE id = 1
	`

	t := &domain.Tariff{}
	err := r.db.QueryRow(ctx, query).Scan(
		&t.RegularFee,
		&t.OvernightFee,
		&t.PenaltyFee,
		&t.UpdatedAt,
		&t.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTariffNotFound
		}
		return nil, err
	}

	return t, nil
}

func (r *tariffRepository) Update(ctx context.Context, t *domain.Tariff) error {
	query := `
		INSERT INTO tariff (id, regular_fee, overnight_fee, penalty_fee, updated_at, updated_by)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET regular_fee = EXCLUDED.regular_fee,
		    overnight_fee = EXCLUDED.overnight_fee,
		    penalty_fee = EXCLUDED.penalty_fee,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by
	`

	_, err := r.db.Exec(ctx, query,
		t.RegularFee,
		t.OvernightFee,
		t.PenaltyFee,
		t.UpdatedAt,
		t.UpdatedBy,
	)
	return err
}
