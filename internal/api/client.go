// Package api is the REST client for the deal-approval backend. Every
// mutating request carries the anti-forgery token read from the session
// cookie jar.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
	"github.com/melkban/dealdesk/internal/ledger"
)

// Error is a server-reported failure. Message carries the body's message
// field when the server sent one; callers prefer it over generic text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client talks to the backend. It implements deal.Gateway, ledger.Gateway
// and receipt.Fetcher.
type Client struct {
	http       *http.Client
	endpoints  config.Endpoints
	csrfCookie string
	csrfHeader string
	baseURL    string
}

func NewClient(cfg *config.Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.API.Timeout,
			Jar:     jar,
		},
		endpoints:  config.DefaultEndpoints(cfg.API.BaseURL),
		csrfCookie: cfg.CSRF.CookieName,
		csrfHeader: cfg.CSRF.Header,
		baseURL:    cfg.API.BaseURL,
	}, nil
}

// EnsureSession primes the cookie jar with a session and CSRF cookie.
func (c *Client) EnsureSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.CSRF, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{StatusCode: resp.StatusCode, Message: decodeMessage(resp.Body)}
	}

	return nil
}

// csrfToken reads the anti-forgery token out of the cookie jar.
func (c *Client) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}

	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == c.csrfCookie {
			return cookie.Value
		}
	}

	return ""
}

// decodeMessage extracts the message field from a response body. A
// malformed body decodes as an empty object.
func decodeMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}

	_ = json.NewDecoder(body).Decode(&payload)

	return payload.Message
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(c.csrfHeader, c.csrfToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: decodeMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// ListDeals fetches one page of the deal list.
func (c *Client) ListDeals(ctx context.Context, q deal.Query) (*deal.Page, error) {
	listURL := c.endpoints.Deals + "?" + q.Values().Encode()

	var page deal.Page
	if err := c.doJSON(ctx, http.MethodGet, listURL, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// GetDeal fetches the full detail snapshot of one deal.
func (c *Client) GetDeal(ctx context.Context, id int64) (*deal.Deal, error) {
	var d deal.Deal
	if err := c.doJSON(ctx, http.MethodGet, config.Expand(c.endpoints.DealDetail, id), nil, &d); err != nil {
		return nil, err
	}

	return &d, nil
}

// ApproveDeal performs the manager approval. The request carries no body
// beyond the anti-forgery header.
func (c *Client) ApproveDeal(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPatch, config.Expand(c.endpoints.DealApprove, id), nil, nil)
}

// RejectDeal performs the manager rejection with a free-text reason,
// possibly empty.
func (c *Client) RejectDeal(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"rejection_reason": reason}

	return c.doJSON(ctx, http.MethodPost, config.Expand(c.endpoints.DealReject, id), body, nil)
}

// DeleteDeal removes a draft deal.
func (c *Client) DeleteDeal(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, config.Expand(c.endpoints.DealDelete, id), nil, nil)
}

// SubmitConsultantApproval records the viewing consultant's response.
func (c *Client) SubmitConsultantApproval(ctx context.Context, id int64, submission deal.ApprovalSubmission) error {
	return c.doJSON(ctx, http.MethodPost, config.Expand(c.endpoints.ConsultantApproval, id), submission, nil)
}

// AccountsPage fetches the ledger book of a deal.
func (c *Client) AccountsPage(ctx context.Context, dealID int64) (*ledger.Book, error) {
	var book ledger.Book
	if err := c.doJSON(ctx, http.MethodGet, config.Expand(c.endpoints.DealAccounts, dealID), nil, &book); err != nil {
		return nil, err
	}

	return &book, nil
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterPayment posts a payment-registration form. It returns the
// server's confirmation message.
func (c *Client) RegisterPayment(ctx context.Context, dealID int64, params ledger.PaymentParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"account":     params.Account,
		"amount":      strconv.FormatInt(params.Amount, 10),
		"method":      params.Method,
		"description": params.Description,
		"date":        params.Date,
	}

	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return "", fmt.Errorf("writing form field: %w", err)
		}
	}

	if params.ReceiptPath != "" {
		if err := attachFile(form, "receipt", params.ReceiptPath); err != nil {
			return "", err
		}
	}

	if err := form.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	paymentURL := config.Expand(c.endpoints.RegisterPayment, dealID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, paymentURL, &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.csrfHeader, c.csrfToken())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var result actionResponse

	_ = json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		return "", &Error{StatusCode: resp.StatusCode, Message: result.Message}
	}

	return result.Message, nil
}

func attachFile(form *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening receipt file: %w", err)
	}
	defer f.Close()

	part, err := form.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copying receipt file: %w", err)
	}

	return nil
}

// ApprovePending approves a pending transaction, posting it to the ledger.
func (c *Client) ApprovePending(ctx context.Context, id int64) error {
	return c.doAction(ctx, config.Expand(c.endpoints.ApprovePendingTx, id), nil)
}

// RejectPending rejects a pending transaction with an optional reason.
func (c *Client) RejectPending(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"rejection_reason": strings.TrimSpace(reason)}

	return c.doAction(ctx, config.Expand(c.endpoints.RejectPendingTx, id), body)
}

// doAction posts a mutation whose response is a {success, message} pair.
func (c *Client) doAction(ctx context.Context, rawURL string, body any) error {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.csrfHeader, c.csrfToken())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var result actionResponse

	_ = json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		return &Error{StatusCode: resp.StatusCode, Message: result.Message}
	}

	return nil
}

// FetchReceipt streams a receipt binary. The caller owns the body. The
// returned content type is the media type without parameters.
func (c *Client) FetchReceipt(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	// Receipt URLs come back host-relative.
	if strings.HasPrefix(rawURL, "/") {
		rawURL = strings.TrimSuffix(c.baseURL, "/") + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, "", &Error{StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	return resp.Body, contentType, nil
}
