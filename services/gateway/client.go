package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/martinianod/chedoparti/models"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Body)
}

// HTTPClient implements Client against the API gateway.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SearchInstitutions(ctx context.Context, query string) ([]models.Institution, error) {
	q := url.Values{"q": {query}}
	var institutions []models.Institution
	if err := c.getJSON(ctx, "/api/institution/search?"+q.Encode(), &institutions); err != nil {
		return nil, err
	}
	return institutions, nil
}

func (c *HTTPClient) CheckAvailability(ctx context.Context, institutionID, date, sport string) ([]string, error) {
	q := url.Values{
		"institutionId": {institutionID},
		"date":          {date},
		"sport":         {sport},
	}
	var availability models.Availability
	if err := c.getJSON(ctx, "/api/reservation/availability?"+q.Encode(), &availability); err != nil {
		return nil, err
	}
	return availability.AvailableTimes, nil
}

func (c *HTTPClient) CreateReservation(ctx context.Context, slots models.ReservationSlots) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := c.postJSON(ctx, "/api/reservation", slots, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *HTTPClient) FindOrCreateUser(ctx context.Context, waID string) (string, error) {
	// The user-service emits userId as a JSON number.
	var resp struct {
		UserID json.Number `json:"userId"`
	}
	payload := map[string]string{"phone": waID}
	if err := c.postJSON(ctx, "/api/auth/whatsapp-login", payload, &resp); err != nil {
		return "", err
	}
	return resp.UserID.String(), nil
}

func (c *HTTPClient) CreatePaymentLink(ctx context.Context, reservationID string) (string, error) {
	var resp struct {
		PaymentURL string `json:"paymentUrl"`
	}
	payload := map[string]string{"reservationId": reservationID}
	if err := c.postJSON(ctx, "/api/payment/whatsapp-link", payload, &resp); err != nil {
		return "", err
	}
	return resp.PaymentURL, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
