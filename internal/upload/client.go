package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// UploadPath is where files are posted, relative to the server root.
	UploadPath = "/upload"

	// FileField is the multipart field carrying the file.
	FileField = "file"

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 4 << 20

	// routeKey is the response field holding the route.
	routeKey = "route"

	// maxQuotedBody caps how much of an unparsable body ends up in an error message.
	maxQuotedBody = 120

	// unnamedFile is the part filename used when the file has no name.
	unnamedFile = "blob"
)

var (
	// ErrInvalidJSON is returned when the response body is not JSON.
	ErrInvalidJSON = errors.New("response contained invalid JSON")

	// ErrMissingRoute is returned when the response has no "route" array.
	ErrMissingRoute = errors.New(`response has no "route" array`)

	// ErrResponseTooLarge is returned when the response body exceeds maxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")

	errInvalidBaseURL = errors.New("base URL must be absolute")
)

// StatusError is returned when a response with a status code of 400 or above carries no route.
type StatusError struct {
	StatusCode int
	// Message is the server's "error" or "message" field, or the status text.
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Message)
}

// Client uploads files to a route server over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each upload. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a Client posting to UploadPath on the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %q: %w", baseURL, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidBaseURL, baseURL)
	}

	c := &Client{
		endpoint:   base.ResolveReference(&url.URL{Path: UploadPath}).String(),
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint is the URL files are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Upload posts file as multipart field "file" and parses the route from the response.
func (c *Client) Upload(ctx context.Context, file *File) (Route, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, contentType, err := createMultipartBody(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(respBody) > maxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseSize)
	}

	// The body decides the outcome; the status only shapes the error.
	route, err := ParseRoute(respBody)
	if err != nil && resp.StatusCode >= http.StatusBadRequest {
		return nil, newStatusError(resp.StatusCode, respBody)
	}

	return route, err
}

// ParseRoute extracts the "route" array from a JSON body. A repeated "route" key
// resolves to its last occurrence.
//
// Elements are converted the way they read: strings as-is, numbers in their shortest
// round-trip form (exponent notation from 1e21 up and below 1e-6), null as an empty
// string, objects and arrays as their raw JSON.
func ParseRoute(body []byte) (Route, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJSON, quoteBody(body))
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, ErrMissingRoute
	}

	var result gjson.Result

	doc.ForEach(func(key, value gjson.Result) bool {
		if key.String() == routeKey {
			result = value
		}

		return true
	})

	if !result.IsArray() {
		return nil, ErrMissingRoute
	}

	items := result.Array()
	route := make(Route, 0, len(items))

	for _, item := range items {
		switch item.Type {
		case gjson.JSON:
			route = append(route, item.Raw)
		case gjson.Number:
			route = append(route, formatNumber(item.Num))
		default:
			route = append(route, item.String())
		}
	}

	return route, nil
}

// formatNumber renders f the way a browser's Number.prototype.toString does.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	sign := ""
	if f < 0 {
		sign, f = "-", -f
	}

	if math.IsInf(f, 1) {
		return sign + "Infinity"
	}

	// Shortest digits in the form d.ddde±XX.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)

	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return sign + sci
	}

	// point is where the decimal point falls relative to digits.
	point := exp + 1
	k := len(digits)

	switch {
	case k <= point && point <= 21:
		return sign + digits + strings.Repeat("0", point-k)
	case 0 < point && point <= 21:
		return sign + digits[:point] + "." + digits[point:]
	case -6 < point && point <= 0:
		return sign + "0." + strings.Repeat("0", -point) + digits
	}

	expSign := "+"
	if exp < 0 {
		expSign, exp = "-", -exp
	}

	if k == 1 {
		return sign + digits + "e" + expSign + strconv.Itoa(exp)
	}

	return sign + digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(exp)
}

func newStatusError(statusCode int, body []byte) *StatusError {
	var message string

	if gjson.ValidBytes(body) {
		message = gjson.GetBytes(body, "error").String()
		if message == "" {
			message = gjson.GetBytes(body, "message").String()
		}
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &StatusError{StatusCode: statusCode, Message: message}
}

// createMultipartBody writes file into a single-part multipart form.
func createMultipartBody(file *File) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	name := filepath.Base(file.Name)
	if file.Name == "" {
		name = unnamedFile
	}

	part, err := writer.CreateFormFile(FileField, name)
	if err != nil {
		_ = writer.Close()

		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}

	if _, err := io.Copy(part, file.Body); err != nil {
		_ = writer.Close()

		return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func quoteBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxQuotedBody {
		return s[:maxQuotedBody] + "..."
	}

	return s
}
