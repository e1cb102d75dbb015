package spaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// DefaultBaseURL is the local development backend address.
const DefaultBaseURL = "http://127.0.0.1:5000/api"

const defaultRequestTimeout = 15 * time.Second

// APIClient issues authenticated requests against the backend REST API.
// It holds no request state of its own: each call is a function of
// (method, path, body, current token) to (decoded result or error).
//
// All non-success responses are normalized into a single error shape
// carrying the backend's message (or DefaultErrorMessage). A 401 response
// has one documented side effect: the token store is cleared and a
// navigation to the login view is requested before the error is returned.
// There is no automatic retry.
type APIClient struct {
	baseURL   string
	http      *http.Client
	store     TokenStore
	navigator Navigator
	logger    Logger
	debug     bool
}

// APIClientOption customizes client construction.
type APIClientOption func(*APIClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) APIClientOption {
	return func(c *APIClient) {
		if client != nil {
			c.http = client
		}
	}
}

// WithClientNavigator sets the Navigator that receives the login redirect
// fired on 401 responses.
func WithClientNavigator(navigator Navigator) APIClientOption {
	return func(c *APIClient) {
		c.navigator = normalizeNavigator(navigator)
	}
}

// WithClientLogger overrides the logger.
func WithClientLogger(logger Logger) APIClientOption {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClientDebug enables request payload dumps at debug level.
func WithClientDebug(debug bool) APIClientOption {
	return func(c *APIClient) {
		c.debug = debug
	}
}

// NewAPIClient returns a client rooted at baseURL using store as its token
// source. An empty baseURL falls back to the local development address.
func NewAPIClient(baseURL string, store TokenStore, opts ...APIClientOption) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &APIClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultRequestTimeout},
		store:     store,
		navigator: noopNavigator{},
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Get issues a GET request and decodes the JSON response into out.
func (c *APIClient) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *APIClient) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *APIClient) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *APIClient) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// PostForm issues a POST request with a multipart form body, used by the
// file-upload endpoints.
func (c *APIClient) PostForm(ctx context.Context, path string, form *MultipartForm, out any) error {
	return c.doForm(ctx, http.MethodPost, path, form, out)
}

// PutForm issues a PUT request with a multipart form body.
func (c *APIClient) PutForm(ctx context.Context, path string, form *MultipartForm, out any) error {
	return c.doForm(ctx, http.MethodPut, path, form, out)
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		if c.debug {
			c.logger.Debug("api %s %s payload=%s", method, path, print.MaybePrettyJSON(body))
		}
		reader = bytes.NewReader(encoded)
	}

	return c.do(ctx, method, path, "application/json", reader, out)
}

func (c *APIClient) doForm(ctx context.Context, method, path string, form *MultipartForm, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode multipart form")
	}
	return c.do(ctx, method, path, contentType, body, out)
}

func (c *APIClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token, err := c.store.Read(ctx); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if err != nil && !errors.Is(err, ErrTokenNotFound) {
		c.logger.Error("api client failed to read token store: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(ctx, resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, extractErrorMessage(resp.Body))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read response body")
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode response body")
	}

	return nil
}

// handleUnauthorized clears the token slot and requests a navigation to the
// login view, then reports the 401 as a normalized error. This is the one
// path besides the session manager allowed to write to the token store.
func (c *APIClient) handleUnauthorized(ctx context.Context, resp *http.Response) error {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear token store after 401: %v", err)
	}
	c.navigator.Navigate(PathLogin)
	return newAPIError(resp.StatusCode, extractErrorMessage(resp.Body))
}

// extractErrorMessage pulls the backend's message out of an error body.
// Most endpoints use "message"; the booking cancellation endpoint reports
// under "error". Unparseable bodies fall back to the generic message.
func extractErrorMessage(body io.Reader) string {
	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}

	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return DefaultErrorMessage
	}
	if payload.Message != "" {
		return payload.Message
	}
	if payload.Error != "" {
		return payload.Error
	}
	return DefaultErrorMessage
}

// MultipartForm accumulates scalar fields and file parts for the
// multipart endpoints (space images).
type MultipartForm struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name     string
	filename string
	reader   io.Reader
}

// NewMultipartForm returns an empty form.
func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

// AddField appends a scalar field.
func (f *MultipartForm) AddField(name, value string) *MultipartForm {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part. The reader is consumed on encode.
func (f *MultipartForm) AddFile(name, filename string, reader io.Reader) *MultipartForm {
	f.files = append(f.files, formFile{name: name, filename: filename, reader: reader})
	return f
}

func (f *MultipartForm) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.files {
		part, err := writer.CreateFormFile(file.name, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}
