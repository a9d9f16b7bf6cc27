package powerpay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/powerpay/reportdesk/internal/models"
)

// Message is one raw conversation entry as returned by the PowerPay API.
// Fields other than message_id are frequently omitted by the backend.
type Message struct {
	MessageID string        `json:"message_id"`
	Role      string        `json:"role,omitempty"`
	Prompt    string        `json:"prompt,omitempty"`
	Response  ResponseField `json:"response,omitempty"`
}

// ResponseField tolerates the two shapes the backend uses for a message
// response: narrative text, or an array of row objects for tabular results.
type ResponseField struct {
	Text    string
	Rows    []models.Row
	Columns []string
}

// Tabular reports whether the response carried a row array.
func (f ResponseField) Tabular() bool {
	return f.Rows != nil
}

func (f *ResponseField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &f.Text)
	case '[':
		var rows []models.Row
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("decode tabular response: %w", err)
		}
		cols, err := firstObjectKeys(data)
		if err != nil {
			return fmt.Errorf("extract column order: %w", err)
		}
		f.Rows = rows
		f.Columns = cols
		return nil
	default:
		// Unexpected scalar; keep the raw text rather than failing the
		// whole message decode.
		f.Text = string(data)
		return nil
	}
}

func (f ResponseField) MarshalJSON() ([]byte, error) {
	if f.Rows != nil {
		ordered := make([]json.RawMessage, len(f.Rows))
		for i, row := range f.Rows {
			buf, err := marshalOrderedRow(f.Columns, row)
			if err != nil {
				return nil, err
			}
			ordered[i] = buf
		}
		return json.Marshal(ordered)
	}
	return json.Marshal(f.Text)
}

// marshalOrderedRow emits the row's cells in column order so a decode
// round-trip preserves the header derivation.
func marshalOrderedRow(columns []string, row models.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(row[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// firstObjectKeys token-scans the first object of a JSON array and returns
// its keys in document order.
func firstObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening [
		return nil, err
	}
	if !dec.More() {
		return nil, nil
	}
	if _, err := dec.Token(); err != nil { // opening {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in row object", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
		_, err = dec.Token() // closing delimiter
		return err
	}
	return nil
}

// ConversationResponse is returned by both start-conversation and
// continue-conversation. The two calls order messages differently:
// start-conversation puts the newest message last, continue-conversation
// puts it first. Callers own the extraction rule.
type ConversationResponse struct {
	ReportID string    `json:"report_id"`
	Messages []Message `json:"messages"`
}

// ReportDataResponse holds a tabular result as a 2-D array whose first row
// is the header.
type ReportDataResponse struct {
	Data [][]any `json:"data"`
}

// SaveReportResponse acknowledges a save; no field beyond status is
// consumed by this client.
type SaveReportResponse struct {
	Status string `json:"status,omitempty"`
}

type startConversationRequest struct {
	Prompt string `json:"prompt"`
}

type continueConversationRequest struct {
	Prompt string `json:"prompt"`
}

type saveReportRequest struct {
	ReportID    string `json:"report_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
