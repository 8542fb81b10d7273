package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("username"))
		assert.Equal(t, "secret", r.URL.Query().Get("password"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok-123", "role": "analyst", "user_id": 7,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	session, err := client.Login("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, RoleAnalyst, session.Role)
	assert.Equal(t, 7, session.UserID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Login("alice", "wrong")
	require.Error(t, err)

	assert.True(t, IsAuthError(err))
	assert.Equal(t, "Invalid credentials", Message(err))
}

func TestTokenHeaderSent(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Companies("tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", gotToken)
}

func TestCreateCompanyOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantExisted bool
	}{
		{"fresh creation", "created", false},
		{"duplicate name", "already exists", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Acme", r.URL.Query().Get("name"))
				json.NewEncoder(w).Encode(map[string]interface{}{
					"id": 1, "name": "Acme", "message": tt.message,
				})
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			result, err := client.CreateCompany("tok", "Acme")
			require.NoError(t, err)
			assert.Equal(t, tt.wantExisted, result.AlreadyExisted())
		})
	}
}

func TestGrantAccessOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantGranted bool
	}{
		{"fresh grant", "granted", false},
		{"existing grant", "already has access", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "3", r.URL.Query().Get("user_id"))
				assert.Equal(t, "9", r.URL.Query().Get("company_id"))
				json.NewEncoder(w).Encode(map[string]string{"message": tt.message})
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			result, err := client.GrantAccess("tok", 3, 9)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGranted, result.AlreadyGranted())
		})
	}
}

func TestDocumentsScopedByCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("company_id"))
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 11, "filename": "q1.pdf", "size_kb": 120, "created_at": "2026-03-01T10:00:00"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	docs, err := client.Documents("tok", 4)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "q1.pdf", docs[0].Filename)
	assert.Equal(t, 120, docs[0].SizeKB)
}

func TestDeleteDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/documents/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.DeleteDocument("tok", 42))
}

func TestIngestPDFMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "6", r.FormValue("company_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-fake", string(content))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "ingested", "document_id": 5, "company_id": 6, "num_chunks": 12,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.IngestPDF("tok", 6, "report.pdf", strings.NewReader("%PDF-fake"))
	require.NoError(t, err)
	assert.Equal(t, 5, result.DocumentID)
	assert.Equal(t, 12, result.NumChunks)
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "What is the revenue?", r.URL.Query().Get("question"))
		assert.Equal(t, "2", r.URL.Query().Get("company_id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"answer": "Revenue was 3.5M.", "context": "chunk text", "chunks_used": 3, "llm": "test-model",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	answer, err := client.Ask("tok", "What is the revenue?", 2)
	require.NoError(t, err)
	assert.Equal(t, "Revenue was 3.5M.", answer.Answer)
	assert.Equal(t, 3, answer.ChunksUsed)
	assert.Equal(t, "test-model", answer.LLM)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.Health())
}

func TestTransportErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL)
	_, err := client.Companies("tok")
	require.Error(t, err)

	assert.False(t, IsAuthError(err))
	assert.Equal(t, transportMessage, Message(err))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"detail preferred", &APIError{StatusCode: 403, Detail: "No access to this company"}, "No access to this company"},
		{"status fallback", &APIError{StatusCode: 500}, "request failed with HTTP 500"},
		{"transport collapses", io.ErrUnexpectedEOF, transportMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}
