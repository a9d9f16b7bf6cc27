package models

import "time"

// ReportStatus is the lifecycle state of a saved report.
type ReportStatus string

const (
	StatusDraft     ReportStatus = "draft"
	StatusPublished ReportStatus = "published"
	StatusArchived  ReportStatus = "archived"
)

// Row maps column names to cell values for one table row.
type Row map[string]any

// APIData is the tabular result envelope attached to a report once backend
// data has been fetched. Columns carries the header order explicitly because
// Go maps do not preserve it.
type APIData struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Report is one saved analytical artifact. Its ID is locally generated from
// a timestamp until the backend-assigned conversation id replaces it on save.
type Report struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Content      string       `json:"content"`
	Status       ReportStatus `json:"status"`
	Type         string       `json:"type"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	AttachmentID string       `json:"attachmentId,omitempty"`
	APIData      *APIData     `json:"apiData,omitempty"`
}

// ReportPatch holds the fields UpdateReport may merge into an existing
// report. Nil fields are left untouched.
type ReportPatch struct {
	Title        *string
	Description  *string
	Content      *string
	Status       *ReportStatus
	Type         *string
	AttachmentID *string
	APIData      *APIData
}

// Apply merges the patch into r.
func (p ReportPatch) Apply(r *Report) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Content != nil {
		r.Content = *p.Content
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.AttachmentID != nil {
		r.AttachmentID = *p.AttachmentID
	}
	if p.APIData != nil {
		r.APIData = p.APIData
	}
}

// Session tracks what is currently open. Empty string means unset.
type Session struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	AttachmentID   string `json:"attachment_id"`
}
