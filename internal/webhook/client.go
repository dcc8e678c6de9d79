package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eimlabs/bidpilot/internal/metrics"
)

// Client forwards chat messages and proposal generation requests to the
// automation workflows behind the configured webhook endpoints.
type Client struct {
	consultantURL     string
	createProposalURL string
	http              *http.Client
	log               *zap.Logger
}

func NewClient(consultantURL, createProposalURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		consultantURL:     consultantURL,
		createProposalURL: createProposalURL,
		http:              &http.Client{Timeout: timeout},
		log:               log,
	}
}

type consultantRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

type proposalRequest struct {
	UserID        string `json:"user_id"`
	OpportunityID string `json:"opportunity_id"`
	Timestamp     string `json:"timestamp"`
}

// SendConsultantMessage posts a chat message to the consultant workflow
// and returns the workflow's textual reply. The endpoint may answer with
// a JSON object carrying a message/reply field or with plain text.
func (c *Client) SendConsultantMessage(ctx context.Context, message, userID string) (string, error) {
	body, err := c.post(ctx, "consultant", c.consultantURL, consultantRequest{
		Message:   message,
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return extractReply(body), nil
}

// TriggerCreateProposal asks the proposal workflow to draft a proposal
// for the given opportunity. The workflow writes the result to the
// database itself; the returned string is its acknowledgement.
func (c *Client) TriggerCreateProposal(ctx context.Context, userID, opportunityID string) (string, error) {
	body, err := c.post(ctx, "create_proposal", c.createProposalURL, proposalRequest{
		UserID:        userID,
		OpportunityID: opportunityID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return extractReply(body), nil
}

func (c *Client) post(ctx context.Context, endpoint, url string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.WebhookCalls.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.WebhookCalls.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.WebhookCalls.WithLabelValues(endpoint, "error").Inc()
		c.log.Warn("webhook returned non-success status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	metrics.WebhookCalls.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

// extractReply pulls a human-readable reply out of a webhook response.
// Workflows are inconsistent about their response shape.
func extractReply(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Reply   string `json:"reply"`
		Output  string `json:"output"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Reply != "" {
			return parsed.Reply
		}
		if parsed.Output != "" {
			return parsed.Output
		}
	}
	return strings.TrimSpace(string(body))
}
