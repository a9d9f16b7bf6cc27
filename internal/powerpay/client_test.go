package powerpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testConversationID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	testMessageID      = "9f1b5b2a-0c4d-4f6e-8a2b-1d3c5e7f9a0b"
)

func TestStartConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/conversations", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "show revenue", body["prompt"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"report_id": "` + testConversationID + `",
			"messages": [
				{"message_id": "m1", "prompt": "show revenue"},
				{"message_id": "m2", "response": "here it is"}
			]
		}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "test-token")
	require.NoError(t, err)

	resp, err := client.StartConversation(context.Background(), "show revenue")
	require.NoError(t, err)
	assert.Equal(t, testConversationID, resp.ReportID)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "show revenue", resp.Messages[0].Prompt)
	assert.Equal(t, "here it is", resp.Messages[1].Response.Text)
	assert.False(t, resp.Messages[1].Response.Tabular())
}

func TestResponseFieldTabular(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{
		"message_id": "m1",
		"response": [{"Dept": "Eng", "Count": 10}, {"Dept": "Sales", "Count": 5}]
	}`), &msg))

	require.True(t, msg.Response.Tabular())
	assert.Equal(t, []string{"Dept", "Count"}, msg.Response.Columns)
	require.Len(t, msg.Response.Rows, 2)
	assert.Equal(t, "Eng", msg.Response.Rows[0]["Dept"])
	assert.Equal(t, float64(10), msg.Response.Rows[0]["Count"])
}

func TestResponseFieldColumnOrderPreserved(t *testing.T) {
	// Keys deliberately not alphabetical; the header derivation depends on
	// document order, not map order.
	raw := []byte(`[{"zeta": 1, "alpha": 2, "mid": 3}]`)
	var f ResponseField
	require.NoError(t, f.UnmarshalJSON(raw))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.Columns)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	var again ResponseField
	require.NoError(t, again.UnmarshalJSON(out))
	assert.Equal(t, f.Columns, again.Columns)
}

func TestResponseFieldNull(t *testing.T) {
	var f ResponseField
	require.NoError(t, f.UnmarshalJSON([]byte(`null`)))
	assert.False(t, f.Tabular())
	assert.Empty(t, f.Text)
}

func TestContinueConversationValidatesID(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client, err := New(srv.URL, "")
	require.NoError(t, err)

	_, err = client.ContinueConversation(context.Background(), "not-a-uuid", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid conversation id")
	assert.Zero(t, calls, "no request may be issued for an invalid id")
}

func TestGetReportData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/conversations/"+testConversationID+"/messages/"+testMessageID+"/data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [["Dept","Count"],["Eng",10],["Sales",5]]}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "")
	require.NoError(t, err)

	resp, err := client.GetReportData(context.Background(), testConversationID, testMessageID)
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Dept", resp.Data[0][0])
	assert.Equal(t, float64(10), resp.Data[1][1])
}

func TestSaveReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reports", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testConversationID, body["report_id"])
		assert.Equal(t, "Q1 revenue", body["name"])
		assert.Equal(t, "Revenue by department", body["description"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "")
	require.NoError(t, err)

	resp, err := client.SaveReport(context.Background(), testConversationID, "Q1 revenue", "Revenue by department")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestErrorStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := New(srv.URL, "")
	require.NoError(t, err)

	_, err = client.StartConversation(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("", "token")
	require.Error(t, err)
}
