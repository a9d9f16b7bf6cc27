package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/powerpay/reportdesk/internal/handoff"
	"github.com/powerpay/reportdesk/internal/models"
	"github.com/powerpay/reportdesk/internal/powerpay"
	"github.com/powerpay/reportdesk/internal/report"
)

// Handler serves the report UI's HTTP surface.
type Handler struct {
	store   *report.Store
	client  report.Client
	channel *handoff.Channel
	logger  *zap.Logger
}

func NewHandler(store *report.Store, client report.Client, channel *handoff.Channel, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Register attaches every route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/reports/generate", h.GenerateReport)
	mux.HandleFunc("/api/reports/save", h.SaveReport)
	mux.HandleFunc("/api/reports/current", h.GetCurrentReport)
	mux.HandleFunc("/api/reports", h.GetReports)
	mux.HandleFunc("/api/chat/message", h.SendMessage)
	mux.HandleFunc("/api/chat/handoff", h.GetHandoff)
	mux.HandleFunc("/api/attachments/result", h.FetchAttachmentResult)
	mux.HandleFunc("/api/session", h.GetSession)
}

type generateReportRequest struct {
	Prompt string `json:"prompt"`
}

type generateReportResponse struct {
	MessageID      string         `json:"message_id"`
	ConversationID string         `json:"conversation_id"`
	Report         *models.Report `json:"report"`
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	messageID, conversationID, err := h.store.StartChat(r.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("Failed to generate report", zap.Error(err))
		http.Error(w, "Failed to generate report. Please try again.", http.StatusBadGateway)
		return
	}

	writeJSON(w, h.logger, generateReportResponse{
		MessageID:      messageID,
		ConversationID: conversationID,
		Report:         h.store.CurrentReport(),
	})
}

type saveReportRequest struct {
	ReportID    string `json:"report_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SaveReport runs the save-dialog pipeline: validate the name, persist the
// report metadata, reload the conversation and leave its transformed
// history in the hand-off channel for the chat view.
func (h *Handler) SaveReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req saveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		// Validation failures abort before any network call.
		http.Error(w, "Report name is required", http.StatusBadRequest)
		return
	}

	if _, err := h.client.SaveReport(r.Context(), req.ReportID, name, strings.TrimSpace(req.Description)); err != nil {
		h.logger.Error("Failed to save report",
			zap.Error(err),
			zap.String("report_id", req.ReportID))
		http.Error(w, "Failed to save report. Please try again.", http.StatusBadGateway)
		return
	}

	messages, err := h.client.GetConversationMessages(r.Context(), req.ReportID)
	if err != nil {
		h.logger.Error("Failed to fetch conversation messages after save",
			zap.Error(err),
			zap.String("report_id", req.ReportID))
		http.Error(w, "Failed to save report. Please try again.", http.StatusBadGateway)
		return
	}

	history := handoff.History{
		ConversationID: req.ReportID,
		Messages:       transformSavedMessages(messages.Messages),
	}
	if err := h.channel.WriteHistory(history); err != nil {
		h.logger.Error("Failed to write chat history hand-off", zap.Error(err))
		http.Error(w, "Failed to save report. Please try again.", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Report saved",
		zap.String("report_id", req.ReportID),
		zap.Int("messages", len(history.Messages)))
	writeJSON(w, h.logger, map[string]string{"status": "saved"})
}

type sendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SendChatMessage(r.Context(), req.ConversationID, req.Content); err != nil {
		h.logger.Error("Failed to send chat message",
			zap.Error(err),
			zap.String("conversation_id", req.ConversationID))
		if errors.Is(err, report.ErrEmptyConversation) {
			http.Error(w, "Invalid response format from API", http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to send message. Please try again.", http.StatusBadGateway)
		return
	}

	writeJSON(w, h.logger, h.store.Session())
}

type attachmentResultRequest struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	AttachmentID   string `json:"attachment_id"`
}

func (h *Handler) FetchAttachmentResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req attachmentResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.FetchAttachmentResult(r.Context(), req.ConversationID, req.MessageID, req.AttachmentID); err != nil {
		h.logger.Error("Failed to fetch attachment result",
			zap.Error(err),
			zap.String("conversation_id", req.ConversationID))
		http.Error(w, "Failed to fetch report data. Please try again.", http.StatusBadGateway)
		return
	}

	writeJSON(w, h.logger, h.store.CurrentReport())
}

func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, h.store.Reports())
}

func (h *Handler) GetCurrentReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, h.store.CurrentReport())
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, h.store.Session())
}

type handoffResponse struct {
	History *handoff.History    `json:"history"`
	Latest  *models.ChatMessage `json:"latest"`
}

// GetHandoff is the chat view's mount read: the seeded history plus any
// incremental message. Absent slots come back null, never an error.
func (h *Handler) GetHandoff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	history, err := h.channel.ReadHistory()
	if err != nil {
		h.logger.Error("Failed to read history hand-off", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	latest, err := h.channel.ReadLatest()
	if err != nil {
		h.logger.Error("Failed to read latest-message hand-off", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, handoffResponse{History: history, Latest: latest})
}

// transformSavedMessages shapes a freshly saved conversation for the chat
// view: user messages keep their prompt as content, assistant messages
// their response text.
func transformSavedMessages(msgs []powerpay.Message) []models.ChatMessage {
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
		content := msg.Response.Text
		if role == "user" {
			content = msg.Prompt
		}
		out[i] = models.ChatMessage{
			ID:        id,
			MessageID: msg.MessageID,
			Content:   content,
			Role:      role,
			Timestamp: now,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
