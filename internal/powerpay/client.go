// Package powerpay is a client for the PowerPay report-data service, the
// external collaborator that runs conversations and produces tabular
// results.
package powerpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the report-data service with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("powerpay base URL is required")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// StartConversation opens a new conversation from a prompt. The newest
// message in the response is the last element.
func (c *Client) StartConversation(ctx context.Context, prompt string) (*ConversationResponse, error) {
	var resp ConversationResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/conversations", startConversationRequest{Prompt: prompt}, &resp); err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}
	return &resp, nil
}

// ContinueConversation appends a prompt to an existing conversation. The
// newest message in the response is the first element.
func (c *Client) ContinueConversation(ctx context.Context, conversationID, prompt string) (*ConversationResponse, error) {
	if err := validateID("conversation id", conversationID); err != nil {
		return nil, err
	}
	var resp ConversationResponse
	path := fmt.Sprintf("/api/conversations/%s/messages", conversationID)
	if err := c.doRequest(ctx, http.MethodPost, path, continueConversationRequest{Prompt: prompt}, &resp); err != nil {
		return nil, fmt.Errorf("continue conversation: %w", err)
	}
	return &resp, nil
}

// GetConversationMessages lists every message of a conversation.
func (c *Client) GetConversationMessages(ctx context.Context, conversationID string) (*ConversationResponse, error) {
	if err := validateID("conversation id", conversationID); err != nil {
		return nil, err
	}
	var resp ConversationResponse
	path := fmt.Sprintf("/api/conversations/%s/messages", conversationID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get conversation messages: %w", err)
	}
	return &resp, nil
}

// GetReportData fetches the tabular result attached to a message. Row 0 of
// the returned data is the header.
func (c *Client) GetReportData(ctx context.Context, conversationID, messageID string) (*ReportDataResponse, error) {
	if err := validateID("conversation id", conversationID); err != nil {
		return nil, err
	}
	if err := validateID("message id", messageID); err != nil {
		return nil, err
	}
	var resp ReportDataResponse
	path := fmt.Sprintf("/api/conversations/%s/messages/%s/data", conversationID, messageID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get report data: %w", err)
	}
	return &resp, nil
}

// SaveReport persists report metadata under the conversation's report id.
func (c *Client) SaveReport(ctx context.Context, reportID, name, description string) (*SaveReportResponse, error) {
	if err := validateID("report id", reportID); err != nil {
		return nil, err
	}
	var resp SaveReportResponse
	req := saveReportRequest{ReportID: reportID, Name: name, Description: description}
	if err := c.doRequest(ctx, http.MethodPost, "/api/reports", req, &resp); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &resp, nil
}

// validateID rejects ids that are not UUIDs before a request goes out; the
// service addresses conversations, messages and reports by UUID.
func validateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid %s %q: %w", kind, id, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("powerpay API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
