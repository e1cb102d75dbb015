package spaces

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Testimonial is a user-submitted review of the platform.
type Testimonial struct {
	ID        string     `json:"id"`
	UserName  string     `json:"user_name"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// TestimonialList is the paginated testimonial response.
type TestimonialList struct {
	Testimonials []Testimonial `json:"testimonials"`
	Pages        int           `json:"pages,omitempty"`
}

// TestimonialInput carries the fields for submitting a testimonial.
type TestimonialInput struct {
	UserName string `json:"user_name"`
	Content  string `json:"content"`
}

// TestimonialsService is the typed surface over the testimonial endpoints.
type TestimonialsService struct {
	client *APIClient
}

// NewTestimonialsService returns a TestimonialsService backed by client.
func NewTestimonialsService(client *APIClient) *TestimonialsService {
	return &TestimonialsService{client: client}
}

// List fetches a page of testimonials.
func (s *TestimonialsService) List(ctx context.Context, page, perPage int) (*TestimonialList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	list := &TestimonialList{}
	if err := s.client.Get(ctx, "/testimonials?"+query.Encode(), list); err != nil {
		return nil, err
	}
	return list, nil
}

// Add submits a testimonial.
func (s *TestimonialsService) Add(ctx context.Context, input TestimonialInput) (*Testimonial, error) {
	testimonial := &Testimonial{}
	if err := s.client.Post(ctx, "/testimonials", input, testimonial); err != nil {
		return nil, err
	}
	return testimonial, nil
}
