package gmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	inboxdomain "looppilot/internal/inbox/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeGmail(t *testing.T, seenAuth *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/threads", func(w http.ResponseWriter, r *http.Request) {
		*seenAuth = append(*seenAuth, r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "from:me newer_than:30d", q.Get("q"))
		assert.Equal(t, "100", q.Get("maxResults"))
		if q.Get("pageToken") == "" {
			writeJSON(w, map[string]interface{}{
				"threads":       []map[string]string{{"id": "t1", "snippet": "hello"}},
				"nextPageToken": "p2",
			})
			return
		}
		assert.Equal(t, "p2", q.Get("pageToken"))
		writeJSON(w, map[string]interface{}{"threads": []map[string]string{{"id": "t2"}}})
	})
	mux.HandleFunc("/gmail/v1/users/me/threads/t1", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "metadata", q.Get("format"))
		assert.ElementsMatch(t, []string{"From", "Subject"}, q["metadataHeaders"])
		writeJSON(w, map[string]interface{}{
			"id":      "t1",
			"snippet": "Thanks &amp; regards",
			"messages": []map[string]interface{}{
				{
					"id":           "m1",
					"internalDate": "1735725600000",
					"labelIds":     []string{"SENT"},
					"payload": map[string]interface{}{
						"headers": []map[string]string{
							{"name": "From", "value": "Ada <ada@example.com>"},
							{"name": "Subject", "value": "Proposal"},
						},
					},
				},
			},
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/profile", func(w http.ResponseWriter, r *http.Request) {
		*seenAuth = append(*seenAuth, r.Header.Get("Authorization"))
		writeJSON(w, map[string]interface{}{"emailAddress": "ada@example.com", "historyId": "7"})
	})
	mux.HandleFunc("/gmail/v1/users/me/watch", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "projects/p/topics/gmail", body["topicName"])
		writeJSON(w, map[string]interface{}{"historyId": "12345", "expiration": "1735725600000"})
	})
	return httptest.NewServer(mux)
}

func validToken() *inboxdomain.GoogleToken {
	return &inboxdomain.GoogleToken{
		UserID:      "u1",
		AccessToken: "access-1",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
}

func TestClient_ListAndGet(t *testing.T) {
	var seen []string
	srv := newFakeGmail(t, &seen)
	defer srv.Close()

	svc := NewService("id", "secret", "http://localhost/cb", option.WithEndpoint(srv.URL+"/"))
	mb, err := svc.Open(context.Background(), validToken(), nil)
	require.NoError(t, err)

	page, err := mb.ListThreads(context.Background(), "from:me newer_than:30d", "", 100)
	require.NoError(t, err)
	require.Len(t, page.Threads, 1)
	assert.Equal(t, "t1", page.Threads[0].ID)
	assert.Equal(t, "p2", page.NextPageToken)

	page, err = mb.ListThreads(context.Background(), "from:me newer_than:30d", "p2", 100)
	require.NoError(t, err)
	assert.Equal(t, "", page.NextPageToken)

	thread, err := mb.GetThread(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Thanks &amp; regards", thread.Snippet)
	require.Len(t, thread.Messages, 1)
	msg := thread.Messages[0]
	assert.Equal(t, "Ada <ada@example.com>", msg.From)
	assert.Equal(t, "Proposal", msg.Subject)
	assert.Equal(t, []string{"SENT"}, msg.LabelIDs)
	assert.True(t, msg.Date.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Bearer access-1", seen[0])
}

func TestClient_ProfileAndWatch(t *testing.T) {
	var seen []string
	srv := newFakeGmail(t, &seen)
	defer srv.Close()

	svc := NewService("id", "secret", "http://localhost/cb", option.WithEndpoint(srv.URL+"/"))
	mb, err := svc.Open(context.Background(), validToken(), nil)
	require.NoError(t, err)

	email, err := mb.ProfileEmail(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	historyID, err := mb.Watch(context.Background(), "projects/p/topics/gmail")
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), historyID)
}

func TestOpen_RefreshesNearExpiryAndPersists(t *testing.T) {
	var seen []string
	gm := newFakeGmail(t, &seen)
	defer gm.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))
		writeJSON(w, map[string]interface{}{
			"access_token": "access-2",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer tokenSrv.Close()

	svc := NewService("id", "secret", "http://localhost/cb", option.WithEndpoint(gm.URL+"/"))
	svc.config.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL, AuthStyle: oauth2.AuthStyleInParams}

	tok := validToken()
	tok.RefreshToken = "refresh-1"
	tok.Expiry = time.Now().Add(90 * time.Second) // inside the refresh window

	var persisted *inboxdomain.GoogleToken
	mb, err := svc.Open(context.Background(), tok, func(t *inboxdomain.GoogleToken) error {
		persisted = t
		return nil
	})
	require.NoError(t, err)

	_, err = mb.ProfileEmail(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer access-2", seen[len(seen)-1])
	require.NotNil(t, persisted)
	assert.Equal(t, "u1", persisted.UserID)
	assert.Equal(t, "access-2", persisted.AccessToken)
	assert.Equal(t, "refresh-1", persisted.RefreshToken)
	assert.True(t, persisted.Expiry.After(time.Now().Add(30*time.Minute)))
}

func TestAuthCodeURL(t *testing.T) {
	svc := NewService("client-1", "secret", "http://localhost/cb")
	raw := svc.AuthCodeURL("state-xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.True(t, strings.Contains(q.Get("scope"), "gmail.readonly"))
}
