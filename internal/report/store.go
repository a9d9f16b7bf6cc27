// Package report owns the report collection and the session pointers, and
// turns conversation responses from the report-data service into saved
// report artifacts.
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/powerpay/reportdesk/internal/handoff"
	"github.com/powerpay/reportdesk/internal/models"
	"github.com/powerpay/reportdesk/internal/powerpay"
)

// ErrEmptyConversation is returned when continue-conversation comes back
// without any messages.
var ErrEmptyConversation = errors.New("conversation response contained no messages")

// Client is the subset of the PowerPay API this store consumes.
type Client interface {
	StartConversation(ctx context.Context, prompt string) (*powerpay.ConversationResponse, error)
	ContinueConversation(ctx context.Context, conversationID, prompt string) (*powerpay.ConversationResponse, error)
	GetConversationMessages(ctx context.Context, conversationID string) (*powerpay.ConversationResponse, error)
	GetReportData(ctx context.Context, conversationID, messageID string) (*powerpay.ReportDataResponse, error)
	SaveReport(ctx context.Context, reportID, name, description string) (*powerpay.SaveReportResponse, error)
}

// Store is the single owner of report and session state. Mutations are
// serialized through one mutex; a network response is applied as an
// unconditional merge against whatever is current at completion time, so
// when two calls race the last response to resolve wins.
type Store struct {
	client  Client
	channel *handoff.Channel
	logger  *zap.Logger

	mu      sync.Mutex
	reports []models.Report
	current *models.Report
	session models.Session
}

// NewStore creates an empty store.
func NewStore(client Client, channel *handoff.Channel, logger *zap.Logger) *Store {
	return &Store{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Seed installs an initial report collection. Existing reports are kept.
func (s *Store) Seed(reports []models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, reports...)
}

// Reports returns the collection, most recent first.
func (s *Store) Reports() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// CurrentReport returns a copy of the current report, or nil.
func (s *Store) CurrentReport() *models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cur := *s.current
	return &cur
}

// Session returns the current session pointers.
func (s *Store) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// AddReport registers a new report from a partial payload: the id and both
// timestamps are assigned here, the report is prepended to the collection
// and becomes the current report. It never fails.
func (s *Store) AddReport(r models.Report) models.Report {
	now := time.Now()
	r.ID = strconv.FormatInt(now.UnixMilli(), 10)
	r.CreatedAt = now
	r.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append([]models.Report{r}, s.reports...)
	cur := r
	s.current = &cur
	return r
}

// UpdateReport merges patch into the report with the given id, refreshing
// UpdatedAt. An unknown id is a silent no-op. When the current report has
// the same id the pointer gets the same merge so both views stay
// consistent.
func (s *Store) UpdateReport(id string, patch models.ReportPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			patch.Apply(&s.reports[i])
			s.reports[i].UpdatedAt = time.Now()
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		patch.Apply(s.current)
		s.current.UpdatedAt = time.Now()
	}
}

// SetCurrentReport replaces the current-report pointer without validation.
func (s *Store) SetCurrentReport(r *models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.current = nil
		return
	}
	cur := *r
	s.current = &cur
}

// SetSessionData sets both session pointers in one update.
func (s *Store) SetSessionData(messageID, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.MessageID = messageID
	s.session.ConversationID = conversationID
}

// SetMessageID points the session at a different message.
func (s *Store) SetMessageID(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.MessageID = messageID
}

// SetAttachmentID records the attachment currently open.
func (s *Store) SetAttachmentID(attachmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AttachmentID = attachmentID
}

// StartChat opens a new conversation from a prompt, updates the session
// pointers, hands the transformed message list to the chat view and
// registers a draft report for the conversation. It returns the new
// message and conversation ids.
func (s *Store) StartChat(ctx context.Context, prompt string) (messageID, conversationID string, err error) {
	resp, err := s.client.StartConversation(ctx, prompt)
	if err != nil {
		s.logger.Error("failed to start conversation", zap.Error(err))
		return "", "", fmt.Errorf("start conversation: %w", err)
	}

	conversationID = resp.ReportID
	// In the start-conversation response the newest message is the last
	// element.
	if n := len(resp.Messages); n > 0 {
		messageID = resp.Messages[n-1].MessageID
	}
	s.SetSessionData(messageID, conversationID)

	if len(resp.Messages) > 0 {
		history := handoff.History{
			ConversationID: conversationID,
			Messages:       transformMessages(resp.Messages),
		}
		if err := s.channel.WriteHistory(history); err != nil {
			// Best effort: the chat view simply sees no hand-off.
			s.logger.Warn("failed to write chat history hand-off", zap.Error(err))
		}
	}

	s.AddReport(models.Report{
		Title:       truncate(prompt, 50),
		Description: fmt.Sprintf("Report generated from prompt: %q", truncate(prompt, 100)),
		Content:     MockReportContent(prompt, "General"),
		Status:      models.StatusDraft,
		Type:        "General",
	})

	return messageID, conversationID, nil
}

// GenerateReportFromPrompt runs StartChat and returns the report it
// produced. The fallback report only materializes when the current pointer
// was cleared between the chat starting and this read.
func (s *Store) GenerateReportFromPrompt(ctx context.Context, prompt string, apiData *models.APIData) (models.Report, error) {
	if _, _, err := s.StartChat(ctx, prompt); err != nil {
		s.logger.Error("failed to generate report", zap.Error(err))
		return models.Report{}, err
	}
	if cur := s.CurrentReport(); cur != nil {
		return *cur, nil
	}

	return s.AddReport(models.Report{
		Title:       "AI Generated Report",
		Description: fmt.Sprintf("Report generated from prompt: %q", truncate(prompt, 100)),
		Content:     MockReportContent(prompt, "General"),
		Status:      models.StatusDraft,
		Type:        "General",
	}), nil
}

// FetchAttachmentResult pulls the tabular result for a message and folds it
// into the current report, or registers a fresh data report when nothing is
// open. An empty result leaves the store untouched.
func (s *Store) FetchAttachmentResult(ctx context.Context, conversationID, messageID, attachmentID string) error {
	s.logger.Debug("fetching attachment result",
		zap.String("conversation_id", conversationID),
		zap.String("message_id", messageID),
		zap.String("attachment_id", attachmentID))

	resp, err := s.client.GetReportData(ctx, conversationID, messageID)
	if err != nil {
		s.logger.Error("failed to fetch report data", zap.Error(err))
		return fmt.Errorf("fetch report data: %w", err)
	}
	if len(resp.Data) == 0 {
		s.logger.Debug("report data response was empty",
			zap.String("conversation_id", conversationID))
		return nil
	}

	columns, rows := rowsFromGrid(resp.Data)
	apiData := &models.APIData{
		Title:   "Query Results",
		Type:    "Query Results",
		Columns: columns,
		Rows:    rows,
	}

	if cur := s.CurrentReport(); cur != nil {
		content := ContentFromAPIData(*apiData, cur.Description)
		s.UpdateReport(cur.ID, models.ReportPatch{APIData: apiData, Content: &content})
		s.logger.Debug("merged attachment data into current report",
			zap.String("report_id", cur.ID),
			zap.Int("rows", len(rows)))
		return nil
	}

	s.AddReport(models.Report{
		Title:       apiData.Title,
		Description: "Report generated from chat history",
		Content:     ContentFromAPIData(*apiData, "Data Report"),
		Status:      models.StatusPublished,
		Type:        "data-report",
		APIData:     apiData,
	})
	s.logger.Debug("registered new data report", zap.Int("rows", len(rows)))
	return nil
}

// SendChatMessage continues a conversation. A response without messages is
// an explicit error and mutates nothing. When the newest message carries
// tabular data the current report is replaced with a synthetic report keyed
// by the conversation id, and an already-open report additionally gets the
// data merged into its stored entry. The transformed message is always
// written to the latest-message hand-off slot.
func (s *Store) SendChatMessage(ctx context.Context, conversationID, content string) error {
	resp, err := s.client.ContinueConversation(ctx, conversationID, content)
	if err != nil {
		s.logger.Error("failed to continue conversation", zap.Error(err))
		return fmt.Errorf("continue conversation: %w", err)
	}
	if resp == nil || len(resp.Messages) == 0 {
		return ErrEmptyConversation
	}

	// In the continue-conversation response the newest message is the
	// first element, unlike start-conversation.
	latest := resp.Messages[0]

	if latest.MessageID != "" {
		s.SetSessionData(latest.MessageID, conversationID)
	}

	if latest.Response.Tabular() {
		apiData := &models.APIData{
			Title:   "Query Results",
			Type:    "Query Results",
			Columns: latest.Response.Columns,
			Rows:    latest.Response.Rows,
		}

		prev := s.CurrentReport()
		createdAt := time.Now()
		if prev != nil {
			createdAt = prev.CreatedAt
		}
		s.SetCurrentReport(&models.Report{
			ID:          conversationID,
			Title:       "Query Results",
			Description: fmt.Sprintf("Report generated from prompt: %q", content),
			Status:      models.StatusPublished,
			Type:        "data-report",
			CreatedAt:   createdAt,
			UpdatedAt:   time.Now(),
			APIData:     apiData,
		})
		if prev != nil {
			s.UpdateReport(prev.ID, models.ReportPatch{APIData: apiData})
		}
	}

	msg := transformLatest(latest)
	if err := s.channel.WriteLatest(msg); err != nil {
		s.logger.Warn("failed to write latest-message hand-off", zap.Error(err))
	}
	return nil
}

// FetchConversationMessages lists a conversation's messages and logs them.
// It deliberately mutates nothing; per-message hydration hangs off this
// read pass later.
func (s *Store) FetchConversationMessages(ctx context.Context, conversationID string) error {
	resp, err := s.client.GetConversationMessages(ctx, conversationID)
	if err != nil {
		s.logger.Error("failed to fetch conversation messages", zap.Error(err))
		return fmt.Errorf("fetch conversation messages: %w", err)
	}
	for _, msg := range resp.Messages {
		if msg.MessageID != "" {
			s.logger.Debug("conversation message",
				zap.String("message_id", msg.MessageID),
				zap.String("role", msg.Role))
		}
	}
	return nil
}

// RestoreSession re-reads the conversation-id hand-off left by a previous
// view and, when a report with that id exists, reopens it as current.
func (s *Store) RestoreSession() error {
	history, err := s.channel.ReadHistory()
	if err != nil {
		return fmt.Errorf("read history hand-off: %w", err)
	}
	if history == nil || history.ConversationID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ConversationID = history.ConversationID
	for i := range s.reports {
		if s.reports[i].ID == history.ConversationID {
			cur := s.reports[i]
			s.current = &cur
			break
		}
	}
	return nil
}

// rowsFromGrid converts a 2-D result whose first row is the header into
// row objects keyed by header.
func rowsFromGrid(grid [][]any) ([]string, []models.Row) {
	columns := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		columns[i] = fmt.Sprint(cell)
	}
	rows := make([]models.Row, 0, len(grid)-1)
	for _, raw := range grid[1:] {
		row := models.Row{}
		for i, col := range columns {
			if i < len(raw) {
				row[col] = raw[i]
			}
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// transformMessages converts raw conversation messages into the chat-view
// shape. The role falls back on prompt presence, the id on the message's
// position.
func transformMessages(msgs []powerpay.Message) []models.ChatMessage {
	now := time.Now()
	out := make([]models.ChatMessage, len(msgs))
	for i, msg := range msgs {
		id := msg.MessageID
		if id == "" {
			id = fmt.Sprintf("msg-%d", i)
		}
		role := msg.Role
		if role == "" {
			if msg.Prompt != "" {
				role = "user"
			} else {
				role = "assistant"
			}
		}
		out[i] = models.ChatMessage{
			ID:        id,
			MessageID: msg.MessageID,
			Content:   msg.Prompt,
			Role:      role,
			Prompt:    msg.Prompt,
			TableData: msg.Response.Rows,
			Timestamp: now,
		}
	}
	return out
}

// transformLatest shapes the newest continue-conversation message for the
// incremental hand-off slot. The sender is always the assistant.
func transformLatest(msg powerpay.Message) models.ChatMessage {
	id := msg.MessageID
	if id == "" {
		id = fmt.Sprintf("msg-%d", time.Now().UnixMilli())
	}
	return models.ChatMessage{
		ID:        id,
		MessageID: msg.MessageID,
		Content:   msg.Prompt,
		Role:      "assistant",
		Prompt:    msg.Prompt,
		TableData: msg.Response.Rows,
		Timestamp: time.Now(),
	}
}
