// Package handoff passes transformed chat data between independently
// mounted views through a persistent slot table. A value survives process
// restarts, the last writer wins, and an absent slot is a normal state for
// a reader, not an error.
package handoff

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/powerpay/reportdesk/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS handoff (
    slot TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Slot names are kept identical to the browser implementation this replaces
// so exported databases stay readable next to old localStorage dumps.
const (
	slotHistory        = "loadedChatHistory"
	slotConversationID = "loadedConversationId"
	slotLatest         = "latestChatMessage"
)

// Channel is a typed view over the slot table.
type Channel struct {
	db *sql.DB
}

// Open opens (and if needed creates) the channel database at path.
func Open(path string) (*Channel, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &Channel{db: db}, nil
}

// Close releases the underlying database.
func (c *Channel) Close() error {
	return c.db.Close()
}

// History is a full conversation hand-off: the transformed message list and
// the conversation it belongs to.
type History struct {
	ConversationID string               `json:"conversation_id"`
	Messages       []models.ChatMessage `json:"messages"`
}

// WriteHistory stores the message list and conversation id together,
// replacing whatever a previous writer left.
func (c *Channel) WriteHistory(h History) error {
	data, err := json.Marshal(h.Messages)
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsert(tx, slotHistory, string(data)); err != nil {
		return err
	}
	if err := upsert(tx, slotConversationID, h.ConversationID); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadHistory returns the current history hand-off, or nil when no writer
// has produced one. The value stays in place for later readers.
func (c *Channel) ReadHistory() (*History, error) {
	raw, ok, err := c.get(slotHistory)
	if err != nil {
		return nil, err
	}
	conversationID, idOK, err := c.get(slotConversationID)
	if err != nil {
		return nil, err
	}
	if !ok && !idOK {
		return nil, nil
	}

	h := &History{ConversationID: conversationID}
	if ok {
		if err := json.Unmarshal([]byte(raw), &h.Messages); err != nil {
			return nil, fmt.Errorf("unmarshal chat history: %w", err)
		}
	}
	return h, nil
}

// WriteLatest stores the single incremental message produced after a
// continue-conversation call.
func (c *Channel) WriteLatest(msg models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal latest message: %w", err)
	}
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := upsert(tx, slotLatest, string(data)); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadLatest returns the latest-message hand-off, or nil when absent.
func (c *Channel) ReadLatest() (*models.ChatMessage, error) {
	raw, ok, err := c.get(slotLatest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var msg models.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, fmt.Errorf("unmarshal latest message: %w", err)
	}
	return &msg, nil
}

func upsert(tx *sql.Tx, slot, value string) error {
	_, err := tx.Exec(`
        INSERT INTO handoff (slot, value, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		slot, value)
	return err
}

func (c *Channel) get(slot string) (string, bool, error) {
	var value string
	err := c.db.QueryRow("SELECT value FROM handoff WHERE slot = ?", slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
