package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/delivery/http/middleware"
	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/jwt"
	"github.com/frontandrew/parkir/internal/usecase/auth"
	"github.com/frontandrew/parkir/internal/usecase/card"
	"github.com/frontandrew/parkir/internal/usecase/overnight"
	"github.com/frontandrew/parkir/internal/usecase/parking"
	"github.com/frontandrew/parkir/internal/usecase/tariff"
	"github.com/frontandrew/parkir/internal/usecase/user"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newRequest собирает запрос с JSON телом, claims и параметрами пути chi
func newRequest(t *testing.T, method, target string, body interface{}, claims *jwt.Claims, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if claims != nil {
		ctx = middleware.WithClaims(ctx, claims)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func claimsFor(role domain.UserRole) *jwt.Claims {
	return &jwt.Claims{UserID: uuid.New(), Email: string(role) + "@campus.ac.id", Role: role}
}

// MockAuthService - мок для auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req *auth.RefreshRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, req *auth.RefreshRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockUserService - мок для user service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, actor domain.Actor, req *user.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, role domain.UserRole, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, actor domain.Actor, id uuid.UUID, req *user.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// MockCardService - мок для card service
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) CreateCard(ctx context.Context, actor domain.Actor, req *card.CreateCardRequest) (*domain.VehicleCard, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCard), args.Error(1)
}

func (m *MockCardService) GetCard(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCard), args.Error(1)
}

func (m *MockCardService) ListMyCards(ctx context.Context, actor domain.Actor) ([]*domain.VehicleCard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VehicleCard), args.Error(1)
}

func (m *MockCardService) UpdateCard(ctx context.Context, actor domain.Actor, id uuid.UUID, req *card.UpdateCardRequest) (*domain.VehicleCard, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCard), args.Error(1)
}

func (m *MockCardService) DeleteCard(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockCardService) GenerateQR(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCard), args.Error(1)
}

// MockParkingService - мок для parking service
type MockParkingService struct {
	mock.Mock
}

func (m *MockParkingService) ScanIn(ctx context.Context, actor domain.Actor, req *parking.ScanRequest) (*parking.ScanResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parking.ScanResponse), args.Error(1)
}

func (m *MockParkingService) ScanOut(ctx context.Context, actor domain.Actor, req *parking.ScanRequest) (*parking.ScanResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parking.ScanResponse), args.Error(1)
}

func (m *MockParkingService) PreviewFee(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*parking.FeePreview, error) {
	args := m.Called(ctx, actor, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parking.FeePreview), args.Error(1)
}

func (m *MockParkingService) ConfirmPayment(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.ParkingSession, error) {
	args := m.Called(ctx, actor, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSession), args.Error(1)
}

func (m *MockParkingService) ListSessions(ctx context.Context, actor domain.Actor, filter domain.SessionFilter) ([]*domain.ParkingSession, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ParkingSession), args.Error(1)
}

func (m *MockParkingService) LatestClosed(ctx context.Context, actor domain.Actor, cardID uuid.UUID) (*domain.ParkingSession, error) {
	args := m.Called(ctx, actor, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSession), args.Error(1)
}

// MockOvernightService - мок для overnight service
type MockOvernightService struct {
	mock.Mock
}

func (m *MockOvernightService) Submit(ctx context.Context, actor domain.Actor, req *overnight.SubmitRequest) (*domain.OvernightRequest, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OvernightRequest), args.Error(1)
}

func (m *MockOvernightService) Decide(ctx context.Context, actor domain.Actor, id uuid.UUID, req *overnight.DecisionRequest) (*domain.OvernightRequest, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OvernightRequest), args.Error(1)
}

func (m *MockOvernightService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.OvernightRequest, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OvernightRequest), args.Error(1)
}

func (m *MockOvernightService) List(ctx context.Context, actor domain.Actor, filter domain.RequestFilter) ([]*domain.OvernightRequest, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OvernightRequest), args.Error(1)
}

// MockTariffService - мок для tariff service
type MockTariffService struct {
	mock.Mock
}

func (m *MockTariffService) Get(ctx context.Context) (*domain.Tariff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tariff), args.Error(1)
}

func (m *MockTariffService) Update(ctx context.Context, actor domain.Actor, req *tariff.UpdateTariffRequest) (*domain.Tariff, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tariff), args.Error(1)
}

// MockDashboardService - мок для dashboard service
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) MonthlyStats(ctx context.Context, year int, month time.Month) (*domain.MonthlyStats, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyStats), args.Error(1)
}

var (
	_ AuthService      = (*MockAuthService)(nil)
	_ UserService      = (*MockUserService)(nil)
	_ CardService      = (*MockCardService)(nil)
	_ ParkingService   = (*MockParkingService)(nil)
	_ OvernightService = (*MockOvernightService)(nil)
	_ TariffService    = (*MockTariffService)(nil)
	_ DashboardService = (*MockDashboardService)(nil)
)
