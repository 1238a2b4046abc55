package rental

import "time"

// StatusResolved marks a completed order. Everything else counts as unfinished.
const StatusResolved = "resolved"

type Device struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Description  *string `json:"description" db:"description"`
	PricePerDay  float64 `json:"price_per_day" db:"price_per_day"`
	CurrentStock int     `json:"current_stock" db:"current_stock"`
	TotalStock   int     `json:"total_stock" db:"total_stock"`
}

type Order struct {
	ID                  int64        `json:"id" db:"id"`
	TotalPrice          float64      `json:"total_price" db:"total_price"`
	OrderStartDate      time.Time    `json:"order_start_date" db:"order_start_date"`
	OrderEndDate        time.Time    `json:"order_end_date" db:"order_end_date"`
	PaymentDueDate      time.Time    `json:"payment_due_date" db:"payment_due_date"`
	OrderLengthDays     int          `json:"order_length_days" db:"order_length_days"`
	OrderStatus         string       `json:"order_status" db:"order_status"`
	PaymentResolved     bool         `json:"payment_resolved" db:"payment_resolved"`
	CustomerName        string       `json:"customer_name" db:"customer_name"`
	CustomerPhoneNumber string       `json:"customer_phone_number" db:"customer_phone_number"`
	CustomerEmail       string       `json:"customer_email" db:"customer_email"`
	Contents            []ContentRow `json:"contents" db:"-"` // joined from order_contents × devices, not a column
}

// ContentRow is one hydrated contents entry: the rented device's columns plus the quantity.
type ContentRow struct {
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	PricePerDay float64 `json:"price_per_day" db:"price_per_day"`
	Count       int     `json:"count" db:"count"`
}

// ContentEntry links a device and a quantity when creating or replacing order contents.
type ContentEntry struct {
	DeviceID int64 `json:"device_id" db:"device_id"`
	Count    int   `json:"count" db:"count"`
}

// NewOrder carries the caller-supplied fields of an order to create. Date fields
// arrive as strings and are normalized by the service before they reach the store.
type NewOrder struct {
	TotalPrice          float64
	OrderStartDate      string
	OrderEndDate        string
	PaymentDueDate      string
	OrderLengthDays     int
	CustomerName        string
	CustomerPhoneNumber string
	CustomerEmail       string
	Contents            []ContentEntry
}

type NewDevice struct {
	Name        string
	Description *string
	PricePerDay float64
	TotalStock  int
}

// OrderUpdate is a partial update. TotalPrice distinguishes "absent" from an
// explicit zero; every other field falls back to the stored value when it is
// the zero value, so an empty string or false is indistinguishable from
// "not supplied". Contents == nil leaves the association rows untouched; any
// non-nil slice (including an empty one) replaces them.
type OrderUpdate struct {
	TotalPrice          *float64
	OrderStartDate      string
	OrderEndDate        string
	PaymentDueDate      string
	OrderLengthDays     int
	OrderStatus         string
	PaymentResolved     bool
	CustomerName        string
	CustomerPhoneNumber string
	CustomerEmail       string
	Contents            []ContentEntry
}

// DeviceUpdate follows the same split: the numeric fields keep an explicit
// zero, name and description fall back on empty.
type DeviceUpdate struct {
	Name         string
	Description  string
	PricePerDay  *float64
	CurrentStock *int
	TotalStock   *int
}
