package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// SMSGateway gửi SMS qua HTTP gateway dạng POST JSON
type SMSGateway struct {
	url    string
	token  string
	client *http.Client
}

func NewSMSGateway(url, token string, client *http.Client) *SMSGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &SMSGateway{url: url, token: token, client: client}
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (g *SMSGateway) Notify(ctx context.Context, recipient, subject, body string) error {
	payload, err := json.Marshal(smsRequest{To: recipient, Message: subject + "\n" + body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
