package spaces

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of a space for a time window.
type Booking struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id,omitempty"`
	SpaceID      string        `json:"space_id"`
	SpaceName    string        `json:"space_name,omitempty"`
	SpaceOwnerID string        `json:"space_owner_id,omitempty"`
	StartTime    *time.Time    `json:"start_time,omitempty"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	Status       BookingStatus `json:"status,omitempty"`
	TotalPrice   float64       `json:"total_price,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"`
}

// BookingList is the paginated booking response.
type BookingList struct {
	Bookings []Booking `json:"bookings"`
	Pages    int       `json:"pages"`
}

// BookingInput carries the fields for creating a booking.
type BookingInput struct {
	SpaceID   string    `json:"space_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// PaymentInput carries the fields for paying a booking.
type PaymentInput struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// PaymentResult is the backend's payment confirmation.
type PaymentResult struct {
	BookingID string        `json:"booking_id"`
	Status    BookingStatus `json:"status"`
	Reference string        `json:"reference,omitempty"`
}

// BookingsService is the typed surface over the booking endpoints.
type BookingsService struct {
	client *APIClient
}

// NewBookingsService returns a BookingsService backed by client.
func NewBookingsService(client *APIClient) *BookingsService {
	return &BookingsService{client: client}
}

// List fetches a page of the caller's bookings.
func (s *BookingsService) List(ctx context.Context, page, perPage int) (*BookingList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	list := &BookingList{}
	if err := s.client.Get(ctx, "/bookings?"+query.Encode(), list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get fetches a single booking by id.
func (s *BookingsService) Get(ctx context.Context, id string) (*Booking, error) {
	booking := &Booking{}
	if err := s.client.Get(ctx, "/bookings/"+url.PathEscape(id), booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Create books a space for the given time window.
func (s *BookingsService) Create(ctx context.Context, input BookingInput) (*Booking, error) {
	booking := &Booking{}
	if err := s.client.Post(ctx, "/bookings", input, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel cancels a booking. The cancellation endpoint reports failures
// under an "error" body field; the client's error extraction covers both
// shapes, so callers see the same normalized error either way.
func (s *BookingsService) Cancel(ctx context.Context, id string) (*Booking, error) {
	booking := &Booking{}
	path := fmt.Sprintf("/bookings/%s/cancel", url.PathEscape(id))
	if err := s.client.Post(ctx, path, nil, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ProcessPayment submits payment for a booking.
func (s *BookingsService) ProcessPayment(ctx context.Context, id string, input PaymentInput) (*PaymentResult, error) {
	result := &PaymentResult{}
	path := fmt.Sprintf("/bookings/%s/payment", url.PathEscape(id))
	if err := s.client.Post(ctx, path, input, result); err != nil {
		return nil, err
	}
	return result, nil
}
