// Package client talks to the catalog API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/pkg/apperrors"
)

// ErrNoBaseURL is returned when the client has no API address
var ErrNoBaseURL = errors.New("catalog API URL is not set")

// Client is a REST client for the catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// DefaultHTTPClient returns the http.Client used when none is given
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// SetToken sets the bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// Token returns the current bearer token
func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    dto.ErrorCode   `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and decodes the envelope's data into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError(resp.StatusCode, nil)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, &env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// statusError maps an error response back to the application errors the server started from
func statusError(status int, env *envelope) error {
	var (
		code    dto.ErrorCode
		message = http.StatusText(status)
		fields  map[string]string
	)
	if env != nil && env.Error != nil {
		code = env.Error.Code
		if env.Error.Message != "" {
			message = env.Error.Message
		}
		// Field errors come as an object; other details are free text
		_ = json.Unmarshal(env.Error.Details, &fields)
	}

	switch status {
	case http.StatusBadRequest:
		if len(fields) > 0 {
			return apperrors.NewValidationError(fields)
		}
		return apperrors.NewBadRequestError(message)
	case http.StatusUnauthorized:
		switch code {
		case dto.ErrorCodeInvalidCredentials:
			return apperrors.ErrInvalidCredentials
		case dto.ErrorCodeExpiredToken:
			return apperrors.ErrTokenExpired
		case dto.ErrorCodeInvalidToken:
			return apperrors.ErrTokenInvalid
		}
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		if message == "Account is disabled" {
			return apperrors.ErrAccountDisabled
		}
		return apperrors.NewForbiddenError(message)
	case http.StatusNotFound:
		return apperrors.NewResourceNotFoundError(message)
	case http.StatusConflict:
		if len(fields) > 0 {
			return &apperrors.ValidationError{Fields: fields, Kind: apperrors.ErrConflict}
		}
		return apperrors.NewConflictError(message)
	}
	return fmt.Errorf("%w: status %d: %s", apperrors.ErrUpstream, status, message)
}

// Login exchanges credentials for an access token and keeps the token for later calls
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token.AccessToken)
	return &resp, nil
}

func filterQuery(filter dto.CourseFilterRequest) url.Values {
	q := url.Values{}
	if filter.Program != "" {
		q.Set("program", filter.Program)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("size", strconv.Itoa(filter.PageSize))
	}
	return q
}

// ListCourses returns one page of courses
func (c *Client) ListCourses(ctx context.Context, filter dto.CourseFilterRequest) (*dto.CourseListResponse, error) {
	var resp dto.CourseListResponse
	if err := c.do(ctx, http.MethodGet, "/courses", filterQuery(filter), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCourse returns one course
func (c *Client) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodGet, coursePath(id), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse stores a new course. Days travel as a comma-joined string.
func (c *Client) CreateCourse(ctx context.Context, rec *models.CourseRecord) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", nil, dto.NewCourseRequest(rec), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse replaces the course with the given id
func (c *Client) UpdateCourse(ctx context.Context, id int64, rec *models.CourseRecord) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPut, coursePath(id), nil, dto.NewCourseRequest(rec), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, coursePath(id), nil, nil, nil)
}

// ValidateCourse asks the server to check a record without storing it
func (c *Client) ValidateCourse(ctx context.Context, rec *models.CourseRecord, editing bool) (*dto.ValidationResponse, error) {
	q := url.Values{}
	if editing {
		q.Set("editing", "true")
	}
	var resp dto.ValidationResponse
	if err := c.do(ctx, http.MethodPost, "/courses/validate", q, dto.NewCourseRequest(rec), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportCourses downloads the spreadsheet of every course matching filter into w and returns
// the file name suggested by the server
func (c *Client) ExportCourses(ctx context.Context, filter dto.CourseFilterRequest, w io.Writer) (string, error) {
	filter.Page, filter.PageSize = 0, 0
	req, err := c.newRequest(ctx, http.MethodGet, "/courses/export", filterQuery(filter), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET /courses/export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env envelope
		if json.NewDecoder(resp.Body).Decode(&env) != nil {
			return "", statusError(resp.StatusCode, nil)
		}
		return "", statusError(resp.StatusCode, &env)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to read export: %w", err)
	}
	return attachmentName(resp.Header.Get("Content-Disposition")), nil
}

func attachmentName(disposition string) string {
	const marker = "filename="
	i := strings.Index(disposition, marker)
	if i < 0 {
		return "materias.xlsx"
	}
	return strings.Trim(disposition[i+len(marker):], `"`)
}

// ListInstructors returns the instructor directory
func (c *Client) ListInstructors(ctx context.Context) ([]dto.InstructorResponse, error) {
	var resp dto.InstructorsResponse
	if err := c.do(ctx, http.MethodGet, "/instructors", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Instructors, nil
}

// CoursesByProgram returns the course count of every program
func (c *Client) CoursesByProgram(ctx context.Context) (*dto.CoursesByProgramResponse, error) {
	var resp dto.CoursesByProgramResponse
	if err := c.do(ctx, http.MethodGet, "/charts/courses-by-program", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserSummary returns the number of users of every role
func (c *Client) UserSummary(ctx context.Context) (*dto.UserSummaryResponse, error) {
	var resp dto.UserSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/charts/user-summary", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func coursePath(id int64) string {
	return "/courses/" + strconv.FormatInt(id, 10)
}
