package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chefhub/internal/models"
	"github.com/magabrotheeeer/chefhub/internal/storage/repository"
	"github.com/magabrotheeeer/chefhub/internal/wompi"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetActiveTier(ctx context.Context, id int) (*models.Tier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tier), args.Error(1)
}

func (m *MockRepository) HasActiveSubscription(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, tr models.PaymentTransaction) (int, error) {
	args := m.Called(ctx, tr)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindPendingTransactionByLinkID(ctx context.Context, linkID string) (*models.PaymentTransaction, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentTransaction), args.Error(1)
}

func (m *MockRepository) ApproveTransaction(ctx context.Context, subscriptionID int, linkID, reference string) error {
	args := m.Called(ctx, subscriptionID, linkID, reference)
	return args.Error(0)
}

func (m *MockRepository) MarkTransactionFailed(ctx context.Context, linkID, status, reason string) error {
	args := m.Called(ctx, linkID, status, reason)
	return args.Error(0)
}

func (m *MockRepository) GetSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePaymentLink(ctx context.Context, reqParams wompi.CreatePaymentLinkRequest) (*wompi.CreatePaymentLinkResponse, error) {
	args := m.Called(ctx, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wompi.CreatePaymentLinkResponse), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishActivation(notice models.ActivationNotice) error {
	args := m.Called(notice)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func linkResponse(url string) *wompi.CreatePaymentLinkResponse {
	resp := &wompi.CreatePaymentLinkResponse{Success: true}
	resp.Data.URLPago = url
	return resp
}

func chefTier() *models.Tier {
	return &models.Tier{
		ID:          2,
		Name:        "Chef",
		Description: "Acceso completo al catálogo de recetas",
		PriceUSD:    4.99,
		Active:      true,
	}
}

func TestCreatePaymentLink_Success(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)

	repo.On("GetActiveTier", mock.Anything, 2).Return(chefTier(), nil).Once()
	repo.On("HasActiveSubscription", mock.Anything, "u1").Return(false, nil).Once()

	gateway.On("CreatePaymentLink", mock.Anything, mock.MatchedBy(func(req wompi.CreatePaymentLinkRequest) bool {
		matched, _ := regexp.MatchString(`^chefhub-2-u1-[0-9a-f-]+$`, req.IdentificadorEnlaceComercio)
		return matched &&
			req.Monto == 4.99 &&
			req.DatosAdicionales.UserID == "u1" &&
			req.DatosAdicionales.TierID == "2" &&
			req.LimitesDeUso.CantidadMaximaPagosExitosos == 1
	})).Return(linkResponse("https://pay.example.com/link/abc"), nil).Once()

	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.UserUID == "u1" && sub.TierID == 2 && sub.Status == models.SubscriptionStatusPending
	})).Return(17, nil).Once()

	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr models.PaymentTransaction) bool {
		return tr.UserUID == "u1" &&
			tr.SubscriptionID != nil && *tr.SubscriptionID == 17 &&
			tr.AmountUSD == 4.99 &&
			tr.Status == models.TransactionStatusPending &&
			tr.PaymentMethod == models.PaymentMethodLink
	})).Return(31, nil).Once()

	service := New(repo, gateway, nil, nil, newNoopLogger(), "app-id", "https://chefhub.example.com")

	link, err := service.CreatePaymentLink(context.Background(), "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/link/abc", link.PaymentURL)
	assert.Regexp(t, `^chefhub-2-u1-`, link.LinkIdentifier)
	assert.False(t, link.ExpiresAt.IsZero())

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCreatePaymentLink_TierNotFound(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)

	repo.On("GetActiveTier", mock.Anything, 42).Return(nil, repository.ErrNotFound).Once()

	service := New(repo, gateway, nil, nil, newNoopLogger(), "app-id", "https://chefhub.example.com")

	_, err := service.CreatePaymentLink(context.Background(), "u1", 42)
	assert.ErrorIs(t, err, ErrTierNotFound)

	gateway.AssertNotCalled(t, "CreatePaymentLink")
	repo.AssertNotCalled(t, "CreateSubscription")
	repo.AssertExpectations(t)
}

func TestCreatePaymentLink_AlreadySubscribed(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)

	repo.On("GetActiveTier", mock.Anything, 2).Return(chefTier(), nil).Once()
	repo.On("HasActiveSubscription", mock.Anything, "u1").Return(true, nil).Once()

	service := New(repo, gateway, nil, nil, newNoopLogger(), "app-id", "https://chefhub.example.com")

	_, err := service.CreatePaymentLink(context.Background(), "u1", 2)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	// Конфликт не оставляет следов: ни запроса в шлюз, ни записей
	gateway.AssertNotCalled(t, "CreatePaymentLink")
	repo.AssertNotCalled(t, "CreateSubscription")
	repo.AssertNotCalled(t, "CreateTransaction")
	repo.AssertExpectations(t)
}

func TestCreatePaymentLink_GatewayFailure(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)

	repo.On("GetActiveTier", mock.Anything, 2).Return(chefTier(), nil).Once()
	repo.On("HasActiveSubscription", mock.Anything, "u1").Return(false, nil).Once()
	gateway.On("CreatePaymentLink", mock.Anything, mock.Anything).
		Return(nil, errors.New("gateway timeout")).Once()

	service := New(repo, gateway, nil, nil, newNoopLogger(), "app-id", "https://chefhub.example.com")

	_, err := service.CreatePaymentLink(context.Background(), "u1", 2)
	assert.ErrorIs(t, err, ErrGateway)

	// Отказ шлюза не оставляет осиротевших записей
	repo.AssertNotCalled(t, "CreateSubscription")
	repo.AssertNotCalled(t, "CreateTransaction")
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCreatePaymentLink_FreshLinkPerAttempt(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)

	var seen []string
	repo.On("GetActiveTier", mock.Anything, 2).Return(chefTier(), nil).Twice()
	repo.On("HasActiveSubscription", mock.Anything, "u1").Return(false, nil).Twice()
	gateway.On("CreatePaymentLink", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(wompi.CreatePaymentLinkRequest)
			seen = append(seen, req.IdentificadorEnlaceComercio)
		}).
		Return(linkResponse("https://pay.example.com/link/abc"), nil).Twice()
	repo.On("CreateSubscription", mock.Anything, mock.Anything).Return(1, nil).Twice()
	repo.On("CreateTransaction", mock.Anything, mock.Anything).Return(1, nil).Twice()

	service := New(repo, gateway, nil, nil, newNoopLogger(), "app-id", "https://chefhub.example.com")

	first, err := service.CreatePaymentLink(context.Background(), "u1", 2)
	require.NoError(t, err)
	second, err := service.CreatePaymentLink(context.Background(), "u1", 2)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1])
	assert.NotEqual(t, first.LinkIdentifier, second.LinkIdentifier)
}
