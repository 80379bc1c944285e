// Package whatsapp sends outbound messages through the WhatsApp Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/martinianod/chedoparti/models"
)

const graphAPIBase = "https://graph.facebook.com/v20.0"

// Sender delivers a text reply to a WhatsApp number.
type Sender interface {
	SendText(ctx context.Context, waID, text string) error
}

// GraphSender implements Sender against the Graph API.
type GraphSender struct {
	AccessToken   string
	PhoneNumberID string
	HTTP          *http.Client
}

func NewGraphSender(accessToken, phoneNumberID string) *GraphSender {
	return &GraphSender{
		AccessToken:   accessToken,
		PhoneNumberID: phoneNumberID,
		HTTP:          &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *GraphSender) SendText(ctx context.Context, waID, text string) error {
	msg := models.OutboundMessage{
		MessagingProduct: "whatsapp",
		To:               waID,
		Type:             "text",
		Text:             models.OutboundText{Body: text},
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIBase, s.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build outbound request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp send returned %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
