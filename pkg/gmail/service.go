package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	inboxdomain "looppilot/internal/inbox/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user = "me"

	// Access tokens are refreshed when they expire within this window.
	refreshSkew = 2 * time.Minute
)

// Scopes requested when connecting a mailbox.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	"openid",
	"email",
	"profile",
}

// Service builds OAuth URLs and per-user Gmail sessions.
type Service struct {
	config *oauth2.Config
	opts   []option.ClientOption
}

// NewService creates the connector. Extra client options are appended to
// every Gmail session (tests point the endpoint at a local server).
func NewService(clientID, clientSecret, redirectURL string, opts ...option.ClientOption) *Service {
	return &Service{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		},
		opts: opts,
	}
}

// AuthCodeURL returns the consent URL. Offline access with forced consent
// makes Google return a refresh token on every connect.
func (s *Service) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for a credential. UserID and
// EmailAddress are left for the caller to fill.
func (s *Service) Exchange(ctx context.Context, code string) (*inboxdomain.GoogleToken, error) {
	tok, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return fromOAuthToken(tok), nil
}

// Open creates a Gmail session for a stored credential. onRefresh is called
// whenever the access token is refreshed.
func (s *Service) Open(ctx context.Context, token *inboxdomain.GoogleToken, onRefresh inboxdomain.TokenRefreshFunc) (inboxdomain.Mailbox, error) {
	current := toOAuthToken(token)

	var base oauth2.TokenSource
	if token.RefreshToken != "" {
		// The refresher starts from the refresh token alone so that it always
		// hits the token endpoint when the reuse layer asks for a new token.
		base = s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})
	} else {
		base = oauth2.StaticTokenSource(current)
	}

	src := &notifyTokenSource{
		src:      oauth2.ReuseTokenSourceWithExpiry(current, base, refreshSkew),
		current:  current,
		template: token,
		callback: onRefresh,
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, src))}, s.opts...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &Client{srv: srv}, nil
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	template *inboxdomain.GoogleToken
	callback inboxdomain.TokenRefreshFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.current.AccessToken != t.AccessToken {
		s.current = t
		if s.callback != nil {
			refreshed := *s.template
			refreshed.AccessToken = t.AccessToken
			refreshed.TokenType = t.TokenType
			refreshed.Expiry = t.Expiry
			if t.RefreshToken != "" {
				refreshed.RefreshToken = t.RefreshToken
			}
			// A failed save only costs another refresh on the next session.
			if err := s.callback(&refreshed); err != nil {
				slog.Warn("[Gmail] failed to persist refreshed token", "user_id", refreshed.UserID, "error", err)
			}
		}
	}
	return t, nil
}

// Client is an authenticated Gmail session.
type Client struct {
	srv *gmail.Service
}

func (c *Client) ListThreads(ctx context.Context, query, pageToken string, pageSize int64) (*inboxdomain.ThreadPage, error) {
	call := c.srv.Users.Threads.List(user).Q(query).MaxResults(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list threads: %w", err)
	}

	page := &inboxdomain.ThreadPage{
		Threads:       make([]inboxdomain.ThreadRef, 0, len(resp.Threads)),
		NextPageToken: resp.NextPageToken,
	}
	for _, t := range resp.Threads {
		page.Threads = append(page.Threads, inboxdomain.ThreadRef{ID: t.Id, Snippet: t.Snippet})
	}
	return page, nil
}

func (c *Client) GetThread(ctx context.Context, threadID string) (*inboxdomain.MailboxThread, error) {
	resp, err := c.srv.Users.Threads.Get(user, threadID).
		Format("metadata").
		MetadataHeaders("From", "Subject").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to get thread %s: %w", threadID, err)
	}
	return convertThread(resp), nil
}

func (c *Client) ProfileEmail(ctx context.Context) (string, error) {
	profile, err := c.srv.Users.GetProfile(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// Watch sets up push notifications for the user's mailbox
func (c *Client) Watch(ctx context.Context, topic string) (uint64, error) {
	resp, err := c.srv.Users.Watch(user, &gmail.WatchRequest{
		TopicName:         topic,
		LabelIds:          []string{"INBOX", inboxdomain.LabelSent},
		LabelFilterAction: "include",
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to watch mailbox: %w", err)
	}
	return resp.HistoryId, nil
}

func convertThread(t *gmail.Thread) *inboxdomain.MailboxThread {
	thread := &inboxdomain.MailboxThread{
		ID:       t.Id,
		Snippet:  t.Snippet,
		Messages: make([]inboxdomain.MailboxMessage, 0, len(t.Messages)),
	}
	for _, m := range t.Messages {
		msg := inboxdomain.MailboxMessage{
			ID:       m.Id,
			LabelIDs: m.LabelIds,
		}
		if m.InternalDate > 0 {
			msg.Date = time.UnixMilli(m.InternalDate).UTC()
		}
		if m.Payload != nil {
			msg.From = getHeader(m.Payload.Headers, "From")
			msg.Subject = getHeader(m.Payload.Headers, "Subject")
		}
		if thread.Snippet == "" {
			thread.Snippet = m.Snippet
		}
		thread.Messages = append(thread.Messages, msg)
	}
	return thread
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func toOAuthToken(t *inboxdomain.GoogleToken) *oauth2.Token {
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    tokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuthToken(t *oauth2.Token) *inboxdomain.GoogleToken {
	scope, _ := t.Extra("scope").(string)
	return &inboxdomain.GoogleToken{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Scope:        scope,
		Expiry:       t.Expiry,
	}
}
