package rental_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/rental"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Orders(ctx context.Context) ([]rental.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) OrderByID(ctx context.Context, id int64) (*rental.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Order), args.Error(1)
}

func (m *MockRepository) OrderContents(ctx context.Context, orderID int64) ([]rental.ContentRow, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]rental.ContentRow), args.Error(1)
}

func (m *MockRepository) UnfinishedOrders(ctx context.Context) ([]rental.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) UnpaidOrders(ctx context.Context) ([]rental.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) LatePaymentOrders(ctx context.Context) ([]rental.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) FinishedOrders(ctx context.Context) ([]rental.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) OrdersBefore(ctx context.Context, t time.Time) ([]rental.Order, error) {
	args := m.Called(ctx, t)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) OrdersAfter(ctx context.Context, t time.Time) ([]rental.Order, error) {
	args := m.Called(ctx, t)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) OrdersBetween(ctx context.Context, a, b time.Time) ([]rental.Order, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockRepository) Devices(ctx context.Context) ([]rental.Device, error) {
	args := m.Called(ctx)
	return args.Get(0).([]rental.Device), args.Error(1)
}

func (m *MockRepository) DeviceByID(ctx context.Context, id int64) (*rental.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Device), args.Error(1)
}

func (m *MockRepository) CreateOrder(ctx context.Context, o *rental.Order, contents []rental.ContentEntry) (int64, error) {
	args := m.Called(ctx, o, contents)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateDevice(ctx context.Context, d *rental.Device) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdateOrder(ctx context.Context, o *rental.Order, contents []rental.ContentEntry) error {
	args := m.Called(ctx, o, contents)
	return args.Error(0)
}

func (m *MockRepository) UpdateDevice(ctx context.Context, d *rental.Device) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRepository) DeleteOrder(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DeleteDevice(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func storedOrder() *rental.Order {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &rental.Order{
		ID:                  9,
		TotalPrice:          120,
		OrderStartDate:      start,
		OrderEndDate:        start.AddDate(0, 0, 3),
		PaymentDueDate:      start.AddDate(0, 0, 14),
		OrderLengthDays:     3,
		OrderStatus:         "pending",
		PaymentResolved:     false,
		CustomerName:        "Ada Lovelace",
		CustomerPhoneNumber: "+3611234567",
		CustomerEmail:       "ada@example.com",
		Contents:            []rental.ContentRow{},
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-06-01T10:00:00Z", want: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2025-06-01 10:00:00", want: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{in: "not-a-date", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := rental.ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, rental.ErrBadTimestamp)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestService_UpdateOrder_FallbackAsymmetry(t *testing.T) {
	// total_price zero sticks because it is pointer-checked; an empty
	// customer_name reverts to the stored value because it falls into the
	// generic falsy fallback.
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	current := storedOrder()
	mockRepo.On("OrderByID", mock.Anything, int64(9)).Return(current, nil)

	var written *rental.Order
	mockRepo.On("UpdateOrder", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(1).(*rental.Order)
			assert.Nil(t, args.Get(2), "omitted contents must stay untouched")
		}).
		Return(nil)

	_, err := svc.UpdateOrder(context.Background(), 9, rental.OrderUpdate{
		TotalPrice:   floatPtr(0),
		CustomerName: "",
	})
	require.NoError(t, err)
	require.NotNil(t, written)

	assert.Equal(t, 0.0, written.TotalPrice, "explicit zero total_price must be written")
	assert.Equal(t, "Ada Lovelace", written.CustomerName, "empty customer_name must keep the stored value")

	want := *current
	want.TotalPrice = 0
	if diff := cmp.Diff(want, *written); diff != "" {
		t.Errorf("unexpected merged order (-want +got):\n%s", diff)
	}
}

func TestService_UpdateOrder_FalsyFlagKeepsStoredValue(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	current := storedOrder()
	current.PaymentResolved = true
	mockRepo.On("OrderByID", mock.Anything, int64(9)).Return(current, nil)

	var written *rental.Order
	mockRepo.On("UpdateOrder", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).(*rental.Order) }).
		Return(nil)

	_, err := svc.UpdateOrder(context.Background(), 9, rental.OrderUpdate{PaymentResolved: false})
	require.NoError(t, err)
	require.NotNil(t, written)
	assert.True(t, written.PaymentResolved, "false is indistinguishable from omitted and keeps the flag")
}

func TestService_UpdateOrder_SuppliedContentsReplace(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	mockRepo.On("OrderByID", mock.Anything, int64(9)).Return(storedOrder(), nil)

	replacement := []rental.ContentEntry{}
	mockRepo.On("UpdateOrder", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			contents := args.Get(2).([]rental.ContentEntry)
			require.NotNil(t, contents, "an explicit empty contents list must be forwarded")
			assert.Empty(t, contents)
		}).
		Return(nil)

	_, err := svc.UpdateOrder(context.Background(), 9, rental.OrderUpdate{Contents: replacement})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateOrder_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	mockRepo.On("OrderByID", mock.Anything, int64(404)).Return(nil, rental.ErrOrderNotFound)

	order, err := svc.UpdateOrder(context.Background(), 404, rental.OrderUpdate{})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, rental.ErrOrderNotFound)
	mockRepo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateDevice_FallbackAsymmetry(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	desc := "1080p"
	current := &rental.Device{ID: 3, Name: "projector", Description: &desc, PricePerDay: 40, CurrentStock: 4, TotalStock: 5}
	mockRepo.On("DeviceByID", mock.Anything, int64(3)).Return(current, nil)

	var written *rental.Device
	mockRepo.On("UpdateDevice", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).(*rental.Device) }).
		Return(nil)

	_, err := svc.UpdateDevice(context.Background(), 3, rental.DeviceUpdate{
		Name:         "",
		CurrentStock: intPtr(0),
	})
	require.NoError(t, err)
	require.NotNil(t, written)

	assert.Equal(t, "projector", written.Name, "empty name must keep the stored value")
	assert.Equal(t, 0, written.CurrentStock, "explicit zero current_stock must be written")
	assert.Equal(t, 40.0, written.PricePerDay)
	assert.Equal(t, 5, written.TotalStock)
}

func TestService_CreateOrder_NormalizesDatesAndRefetches(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	wantStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	created := storedOrder()

	mockRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *rental.Order) bool {
		return o.OrderStartDate.Equal(wantStart)
	}), mock.Anything).Return(int64(9), nil)
	mockRepo.On("OrderByID", mock.Anything, int64(9)).Return(created, nil)

	order, err := svc.CreateOrder(context.Background(), rental.NewOrder{
		TotalPrice:     120,
		OrderStartDate: "2025-06-01",
		OrderEndDate:   "2025-06-04 10:00:00",
		PaymentDueDate: "2025-06-15T10:00:00Z",
		CustomerName:   "Ada Lovelace",
	})
	require.NoError(t, err)

	if diff := cmp.Diff(created, order); diff != "" {
		t.Errorf("created order should be the re-fetched row (-want +got):\n%s", diff)
	}
	mockRepo.AssertExpectations(t)
}

func TestService_CreateOrder_BadDateNeverReachesStore(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	_, err := svc.CreateOrder(context.Background(), rental.NewOrder{OrderStartDate: "yesterday-ish"})
	assert.ErrorIs(t, err, rental.ErrBadTimestamp)
	mockRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_OrdersBetween_ParsesBothBounds(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := rental.NewService(mockRepo)

	a := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	mockRepo.On("OrdersBetween", mock.Anything, a, b).Return([]rental.Order{}, nil)

	orders, err := svc.OrdersBetween(context.Background(), "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	assert.Empty(t, orders)
	mockRepo.AssertExpectations(t)
}
