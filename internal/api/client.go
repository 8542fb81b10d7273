package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL matches the backend's default local bind address
const DefaultBaseURL = "http://127.0.0.1:8000"

const headerToken = "X-Token"

// Client talks to the analyst backend. The authentication token is not
// stored here; the session layer owns it and every authenticated call
// receives it explicitly.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a debug logger; every request outcome is recorded
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a backend client for the given base URL
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes a request against path with the given query parameters and
// optional body, decoding a JSON response into result. A non-2xx status
// becomes an *APIError carrying the backend's detail text; everything that
// prevents a response from arriving stays a wrapped transport error.
func (c *Client) do(method, path, token string, query url.Values, body io.Reader, contentType string, result interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if token != "" {
		req.Header.Set(headerToken, token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(method, path, 0, err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(method, path, resp.StatusCode, err)
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(respBody, &detail); err == nil && detail.Detail != "" {
			apiErr.Detail = detail.Detail
		}
		c.log(method, path, resp.StatusCode, apiErr)
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			c.log(method, path, resp.StatusCode, err)
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	c.log(method, path, resp.StatusCode, nil)
	return nil
}

func (c *Client) log(method, path string, status int, err error) {
	if c.logger == nil {
		return
	}
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", path, "status", status, "error", err)
		return
	}
	c.logger.Debug("api request", "method", method, "path", path, "status", status)
}

// SeedAdmin triggers the idempotent bootstrap of the default admin account
func (c *Client) SeedAdmin() (SeedResult, error) {
	var result SeedResult
	err := c.do(http.MethodPost, "/seed/admin", "", nil, nil, "", &result)
	return result, err
}

// Health checks backend liveness
func (c *Client) Health() error {
	var result struct {
		Status string `json:"status"`
	}
	return c.do(http.MethodGet, "/health", "", nil, nil, "", &result)
}

// Login exchanges credentials for a session. Invalid credentials come back
// as an *APIError with status 401.
func (c *Client) Login(username, password string) (Session, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)

	var session Session
	err := c.do(http.MethodPost, "/login", "", query, nil, "", &session)
	return session, err
}

// Companies lists every company the token may see
func (c *Client) Companies(token string) ([]Company, error) {
	var companies []Company
	err := c.do(http.MethodGet, "/companies", token, nil, nil, "", &companies)
	return companies, err
}

// CreateCompany creates a company by name; the result distinguishes a fresh
// creation from an existing company of the same name
func (c *Client) CreateCompany(token, name string) (CompanyResult, error) {
	query := url.Values{}
	query.Set("name", name)

	var result CompanyResult
	err := c.do(http.MethodPost, "/companies", token, query, nil, "", &result)
	return result, err
}

// Users lists every account (admin only)
func (c *Client) Users(token string) ([]User, error) {
	var users []User
	err := c.do(http.MethodGet, "/users", token, nil, nil, "", &users)
	return users, err
}

// CreateUser creates an account with the given role (admin only)
func (c *Client) CreateUser(token, username, password string, role Role) (User, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)
	query.Set("role", string(role))

	var user User
	err := c.do(http.MethodPost, "/users", token, query, nil, "", &user)
	return user, err
}

// GrantAccess grants a user access to a company (admin only); the result
// distinguishes a fresh grant from a pre-existing one
func (c *Client) GrantAccess(token string, userID, companyID int) (GrantResult, error) {
	query := url.Values{}
	query.Set("user_id", strconv.Itoa(userID))
	query.Set("company_id", strconv.Itoa(companyID))

	var result GrantResult
	err := c.do(http.MethodPost, "/grant-access", token, query, nil, "", &result)
	return result, err
}

// Documents lists the ingested documents of one company
func (c *Client) Documents(token string, companyID int) ([]Document, error) {
	query := url.Values{}
	query.Set("company_id", strconv.Itoa(companyID))

	var documents []Document
	err := c.do(http.MethodGet, "/documents", token, query, nil, "", &documents)
	return documents, err
}

// DeleteDocument removes a document by id
func (c *Client) DeleteDocument(token string, documentID int) error {
	var result struct {
		Message string `json:"message"`
	}
	return c.do(http.MethodDelete, "/documents/"+strconv.Itoa(documentID), token, nil, nil, "", &result)
}

// IngestPDF uploads a PDF for the given company as multipart form data and
// returns the ingestion outcome (document id, chunk count)
func (c *Client) IngestPDF(token string, companyID int, filename string, file io.Reader) (IngestResult, error) {
	var buf io.Reader
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("company_id", strconv.Itoa(companyID)); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()
	buf = pr

	var result IngestResult
	err := c.do(http.MethodPost, "/ingest-pdf", token, nil, buf, writer.FormDataContentType(), &result)
	return result, err
}

// Ask sends a natural-language question scoped to one company
func (c *Client) Ask(token, question string, companyID int) (Answer, error) {
	query := url.Values{}
	query.Set("question", question)
	query.Set("company_id", strconv.Itoa(companyID))

	var answer Answer
	err := c.do(http.MethodPost, "/ask", token, query, nil, "", &answer)
	return answer, err
}
