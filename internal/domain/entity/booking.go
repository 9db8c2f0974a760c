package entity

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Active reports whether the booking still awaits or is receiving service.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingInProgress
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

const (
	BookingDateLayout = "2006-1-2"
	BookingTimeLayout = "15:04"
)

type Booking struct {
	ID                 string        `json:"id,omitempty" firestore:"-"`
	CustomerID         string        `json:"customer_id" firestore:"customer_id"`
	ProviderID         string        `json:"provider_id" firestore:"provider_id"`
	BookingDate        string        `json:"booking_date" firestore:"booking_date"`
	BookingTime        string        `json:"booking_time" firestore:"booking_time"`
	DurationMinutes    int           `json:"duration_minutes" firestore:"duration_minutes"`
	ServiceAddress     string        `json:"service_address" firestore:"service_address"`
	EstimatedPrice     float64       `json:"estimated_price" firestore:"estimated_price"`
	FinalPrice         *float64      `json:"final_price,omitempty" firestore:"final_price,omitempty"`
	Status             BookingStatus `json:"status" firestore:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" firestore:"payment_status"`
	CancellationReason string        `json:"cancellation_reason,omitempty" firestore:"cancellation_reason,omitempty"`
	CancelledBy        string        `json:"cancelled_by,omitempty" firestore:"cancelled_by,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty" firestore:"cancelled_at,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty" firestore:"completed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at" firestore:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" firestore:"updated_at"`
}

func (b *Booking) SetID(id string) { b.ID = id }

func (b *Booking) Validate() error {
	if !b.Status.Valid() {
		return fmt.Errorf("booking %s: unknown status %q", b.ID, b.Status)
	}
	if b.PaymentStatus != "" && !b.PaymentStatus.Valid() {
		return fmt.Errorf("booking %s: unknown payment status %q", b.ID, b.PaymentStatus)
	}
	return nil
}

// ScheduledAt parses BookingDate and BookingTime. Dates are accepted with or
// without zero padding ("2024-9-1" and "2024-09-01"); a missing time means midnight.
func (b *Booking) ScheduledAt() (time.Time, error) {
	day, err := time.Parse(BookingDateLayout, b.BookingDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking date %q: %w", b.BookingDate, err)
	}
	if b.BookingTime == "" {
		return day, nil
	}
	clock, err := time.Parse(BookingTimeLayout, b.BookingTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking time %q: %w", b.BookingTime, err)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// IsParticipant reports whether uid is the booking's customer or provider.
func (b *Booking) IsParticipant(uid string) bool {
	return uid != "" && (uid == b.CustomerID || uid == b.ProviderID)
}
