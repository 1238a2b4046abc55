package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrBadTimestamp wraps route or body time strings the service could not normalize.
var ErrBadTimestamp = errors.New("unparseable timestamp")

// Service sits between the HTTP layer and the repository. It normalizes
// caller-supplied time strings and applies the partial-update fallback rules;
// everything else passes straight through.
type Service interface {
	Orders(ctx context.Context) ([]Order, error)
	OrderByID(ctx context.Context, id int64) (*Order, error)
	OrderContents(ctx context.Context, orderID int64) ([]ContentRow, error)
	UnfinishedOrders(ctx context.Context) ([]Order, error)
	UnpaidOrders(ctx context.Context) ([]Order, error)
	LatePaymentOrders(ctx context.Context) ([]Order, error)
	FinishedOrders(ctx context.Context) ([]Order, error)
	OrdersBefore(ctx context.Context, t string) ([]Order, error)
	OrdersAfter(ctx context.Context, t string) ([]Order, error)
	OrdersBetween(ctx context.Context, a, b string) ([]Order, error)
	Devices(ctx context.Context) ([]Device, error)
	DeviceByID(ctx context.Context, id int64) (*Device, error)
	CreateOrder(ctx context.Context, input NewOrder) (*Order, error)
	CreateDevice(ctx context.Context, input NewDevice) (*Device, error)
	UpdateOrder(ctx context.Context, id int64, upd OrderUpdate) (*Order, error)
	UpdateDevice(ctx context.Context, id int64, upd DeviceUpdate) (*Device, error)
	DeleteOrder(ctx context.Context, id int64) error
	DeleteDevice(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp normalizes a caller-supplied time string to UTC before it is
// used in a store comparison.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("service: %w: %q", ErrBadTimestamp, s)
}

func (s *service) Orders(ctx context.Context) ([]Order, error) {
	return s.repo.Orders(ctx)
}

func (s *service) OrderByID(ctx context.Context, id int64) (*Order, error) {
	return s.repo.OrderByID(ctx, id)
}

func (s *service) OrderContents(ctx context.Context, orderID int64) ([]ContentRow, error) {
	return s.repo.OrderContents(ctx, orderID)
}

func (s *service) UnfinishedOrders(ctx context.Context) ([]Order, error) {
	return s.repo.UnfinishedOrders(ctx)
}

func (s *service) UnpaidOrders(ctx context.Context) ([]Order, error) {
	return s.repo.UnpaidOrders(ctx)
}

func (s *service) LatePaymentOrders(ctx context.Context) ([]Order, error) {
	return s.repo.LatePaymentOrders(ctx)
}

func (s *service) FinishedOrders(ctx context.Context) ([]Order, error) {
	return s.repo.FinishedOrders(ctx)
}

func (s *service) OrdersBefore(ctx context.Context, t string) ([]Order, error) {
	cutoff, err := ParseTimestamp(t)
	if err != nil {
		return nil, err
	}
	return s.repo.OrdersBefore(ctx, cutoff)
}

func (s *service) OrdersAfter(ctx context.Context, t string) ([]Order, error) {
	cutoff, err := ParseTimestamp(t)
	if err != nil {
		return nil, err
	}
	return s.repo.OrdersAfter(ctx, cutoff)
}

func (s *service) OrdersBetween(ctx context.Context, a, b string) ([]Order, error) {
	from, err := ParseTimestamp(a)
	if err != nil {
		return nil, err
	}
	to, err := ParseTimestamp(b)
	if err != nil {
		return nil, err
	}
	return s.repo.OrdersBetween(ctx, from, to)
}

func (s *service) Devices(ctx context.Context) ([]Device, error) {
	return s.repo.Devices(ctx)
}

func (s *service) DeviceByID(ctx context.Context, id int64) (*Device, error) {
	return s.repo.DeviceByID(ctx, id)
}

func (s *service) CreateOrder(ctx context.Context, input NewOrder) (*Order, error) {
	start, err := ParseTimestamp(input.OrderStartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimestamp(input.OrderEndDate)
	if err != nil {
		return nil, err
	}
	due, err := ParseTimestamp(input.PaymentDueDate)
	if err != nil {
		return nil, err
	}

	order := Order{
		TotalPrice:          input.TotalPrice,
		OrderStartDate:      start,
		OrderEndDate:        end,
		PaymentDueDate:      due,
		OrderLengthDays:     input.OrderLengthDays,
		CustomerName:        input.CustomerName,
		CustomerPhoneNumber: input.CustomerPhoneNumber,
		CustomerEmail:       input.CustomerEmail,
	}

	id, err := s.repo.CreateOrder(ctx, &order, input.Contents)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	// Re-fetch so the caller sees the canonical stored row, defaults included.
	return s.repo.OrderByID(ctx, id)
}

func (s *service) CreateDevice(ctx context.Context, input NewDevice) (*Device, error) {
	device := Device{
		Name:        input.Name,
		Description: input.Description,
		PricePerDay: input.PricePerDay,
		TotalStock:  input.TotalStock,
	}

	id, err := s.repo.CreateDevice(ctx, &device)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create device")
		return nil, fmt.Errorf("service: failed to create device: %w", err)
	}

	return s.repo.DeviceByID(ctx, id)
}

// UpdateOrder merges the update into the stored order. total_price keeps an
// explicit zero because it is checked against nil; every other field keeps the
// stored value whenever the supplied one is the zero value. That asymmetry is
// the inherited contract.
func (s *service) UpdateOrder(ctx context.Context, id int64, upd OrderUpdate) (*Order, error) {
	current, err := s.repo.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if upd.TotalPrice != nil {
		merged.TotalPrice = *upd.TotalPrice
	}
	if upd.OrderStartDate != "" {
		if merged.OrderStartDate, err = ParseTimestamp(upd.OrderStartDate); err != nil {
			return nil, err
		}
	}
	if upd.OrderEndDate != "" {
		if merged.OrderEndDate, err = ParseTimestamp(upd.OrderEndDate); err != nil {
			return nil, err
		}
	}
	if upd.PaymentDueDate != "" {
		if merged.PaymentDueDate, err = ParseTimestamp(upd.PaymentDueDate); err != nil {
			return nil, err
		}
	}
	if upd.OrderLengthDays != 0 {
		merged.OrderLengthDays = upd.OrderLengthDays
	}
	if upd.OrderStatus != "" {
		merged.OrderStatus = upd.OrderStatus
	}
	if upd.PaymentResolved {
		merged.PaymentResolved = true
	}
	if upd.CustomerName != "" {
		merged.CustomerName = upd.CustomerName
	}
	if upd.CustomerPhoneNumber != "" {
		merged.CustomerPhoneNumber = upd.CustomerPhoneNumber
	}
	if upd.CustomerEmail != "" {
		merged.CustomerEmail = upd.CustomerEmail
	}

	if err := s.repo.UpdateOrder(ctx, &merged, upd.Contents); err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to update order")
		return nil, fmt.Errorf("service: failed to update order: %w", err)
	}

	return s.repo.OrderByID(ctx, id)
}

func (s *service) UpdateDevice(ctx context.Context, id int64, upd DeviceUpdate) (*Device, error) {
	current, err := s.repo.DeviceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if upd.Name != "" {
		merged.Name = upd.Name
	}
	if upd.Description != "" {
		desc := upd.Description
		merged.Description = &desc
	}
	if upd.PricePerDay != nil {
		merged.PricePerDay = *upd.PricePerDay
	}
	if upd.CurrentStock != nil {
		merged.CurrentStock = *upd.CurrentStock
	}
	if upd.TotalStock != nil {
		merged.TotalStock = *upd.TotalStock
	}

	if err := s.repo.UpdateDevice(ctx, &merged); err != nil {
		log.Error().Err(err).Int64("device_id", id).Msg("service: failed to update device")
		return nil, fmt.Errorf("service: failed to update device: %w", err)
	}

	return s.repo.DeviceByID(ctx, id)
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.DeleteOrder(ctx, id)
}

func (s *service) DeleteDevice(ctx context.Context, id int64) error {
	return s.repo.DeleteDevice(ctx, id)
}
