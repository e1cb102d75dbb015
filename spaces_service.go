package spaces

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"
)

// SpaceStatus is the listing state of a space.
type SpaceStatus string

const (
	SpaceStatusAvailable   SpaceStatus = "available"
	SpaceStatusUnavailable SpaceStatus = "unavailable"
)

// SpaceImage is an uploaded image attached to a space.
type SpaceImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// Space is a rentable space listing.
type Space struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"owner_id,omitempty"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Address       string       `json:"address,omitempty"`
	Capacity      int          `json:"capacity,omitempty"`
	PricePerHour  float64      `json:"price_per_hour"`
	Status        SpaceStatus  `json:"status,omitempty"`
	Images        []SpaceImage `json:"images,omitempty"`
	TotalBookings int          `json:"total_bookings,omitempty"`
	TotalRevenue  float64      `json:"total_revenue,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
}

// SpaceList is the paginated listing response.
type SpaceList struct {
	Spaces     []Space `json:"spaces"`
	TotalCount int     `json:"totalCount"`
}

// SpaceInput carries the fields for creating or updating a space. Images
// travel as multipart file parts next to the scalar fields.
type SpaceInput struct {
	Name         string
	Description  string
	Address      string
	Capacity     int
	PricePerHour float64
	Status       SpaceStatus
	Images       []SpaceImageUpload

	// Update-only: ids of images to remove and the image to promote.
	DeletedImageIDs []string
	PrimaryImageID  string
}

// SpaceImageUpload is a pending image file.
type SpaceImageUpload struct {
	Filename string
	Reader   io.Reader
}

// SpacesService is the typed surface over the space endpoints.
type SpacesService struct {
	client *APIClient
}

// NewSpacesService returns a SpacesService backed by client.
func NewSpacesService(client *APIClient) *SpacesService {
	return &SpacesService{client: client}
}

// List fetches a page of spaces. Filters are passed through as query
// parameters (e.g. "status").
func (s *SpacesService) List(ctx context.Context, page, perPage int, filters map[string]string) (*SpaceList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	for key, value := range filters {
		query.Set(key, value)
	}

	list := &SpaceList{}
	if err := s.client.Get(ctx, "/spaces?"+query.Encode(), list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get fetches a single space by id.
func (s *SpacesService) Get(ctx context.Context, id string) (*Space, error) {
	space := &Space{}
	if err := s.client.Get(ctx, "/spaces/"+url.PathEscape(id), space); err != nil {
		return nil, err
	}
	return space, nil
}

// Create creates a space. The payload goes out as multipart form data so
// images upload in the same request as the scalar fields.
func (s *SpacesService) Create(ctx context.Context, input SpaceInput) (*Space, error) {
	space := &Space{}
	if err := s.client.PostForm(ctx, "/spaces", input.form(), space); err != nil {
		return nil, err
	}
	return space, nil
}

// Update updates a space, optionally uploading new images, deleting
// existing ones, and promoting a primary image in the same request.
func (s *SpacesService) Update(ctx context.Context, id string, input SpaceInput) (*Space, error) {
	space := &Space{}
	if err := s.client.PutForm(ctx, "/spaces/"+url.PathEscape(id), input.form(), space); err != nil {
		return nil, err
	}
	return space, nil
}

// Delete removes a space.
func (s *SpacesService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/spaces/"+url.PathEscape(id), nil)
}

// UploadImage attaches a single image to an existing space.
func (s *SpacesService) UploadImage(ctx context.Context, spaceID string, image SpaceImageUpload, isPrimary bool) (*SpaceImage, error) {
	form := NewMultipartForm().
		AddFile("image", image.Filename, image.Reader).
		AddField("is_primary", strconv.FormatBool(isPrimary))

	uploaded := &SpaceImage{}
	path := fmt.Sprintf("/spaces/%s/images", url.PathEscape(spaceID))
	if err := s.client.PostForm(ctx, path, form, uploaded); err != nil {
		return nil, err
	}
	return uploaded, nil
}

func (in SpaceInput) form() *MultipartForm {
	form := NewMultipartForm().
		AddField("name", in.Name).
		AddField("description", in.Description).
		AddField("address", in.Address).
		AddField("capacity", strconv.Itoa(in.Capacity)).
		AddField("price_per_hour", strconv.FormatFloat(in.PricePerHour, 'f', -1, 64))

	if in.Status != "" {
		form.AddField("status", string(in.Status))
	}

	for _, image := range in.Images {
		form.AddFile("images", image.Filename, image.Reader)
	}

	for _, id := range in.DeletedImageIDs {
		form.AddField("deleted_image_ids", id)
	}

	if in.PrimaryImageID != "" {
		form.AddField("primary_image_id", in.PrimaryImageID)
	}

	return form
}
