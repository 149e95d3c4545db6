package tariff

import (
	"context"
	"testing"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fee(v int64) *int64 { return &v }

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	tests := []struct {
		name    string
		req     UpdateTariffRequest
		wantErr bool
	}{
		{name: "валидный тариф", req: UpdateTariffRequest{RegularFee: fee(2000), OvernightFee: fee(5000), PenaltyFee: fee(15000)}},
		{name: "нулевые суммы допустимы", req: UpdateTariffRequest{RegularFee: fee(0), OvernightFee: fee(0), PenaltyFee: fee(0)}},
		{name: "отрицательная сумма", req: UpdateTariffRequest{RegularFee: fee(-1), OvernightFee: fee(5000), PenaltyFee: fee(15000)}, wantErr: true},
		{name: "нет штрафа", req: UpdateTariffRequest{RegularFee: fee(2000), OvernightFee: fee(5000)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.TariffRepository)
			repo.On("Update", ctx, mock.MatchedBy(func(tr *domain.Tariff) bool {
				return *tr.UpdatedBy == admin.UserID
			})).Return(nil).Maybe()

			got, err := NewService(repo, logger.NewNoop()).Update(ctx, admin, &tt.req)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tt.req.RegularFee, got.RegularFee)
			repo.AssertExpectations(t)
		})
	}
}
