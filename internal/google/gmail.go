// Package google serves the Workspace routes using the Google tokens
// obtained at login time.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatgate/chatgate/internal/auth/tokenshelf"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrNotConnected indicates no Google tokens are held for the caller, who
// must go through the login flow again
var ErrNotConnected = errors.New("no Google tokens for this session")

// detailLimit caps how many messages are fetched in full per listing
const detailLimit = 5

// MessageSummary is one Gmail message header line
type MessageSummary struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Snippet string `json:"snippet"`
}

// GmailService lists recent messages on behalf of a logged-in user
type GmailService struct {
	shelf *tokenshelf.Shelf
}

func NewGmailService(shelf *tokenshelf.Shelf) *GmailService {
	return &GmailService{shelf: shelf}
}

// RecentMessages returns header summaries for the subject's most recent
// mail, newest first
func (s *GmailService) RecentMessages(ctx context.Context, subject string, limit int64) ([]MessageSummary, error) {
	token := s.shelf.Get(subject)
	if token == nil {
		return nil, ErrNotConnected
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	list, err := svc.Users.Messages.List("me").MaxResults(limit).Context(ctx).Do()
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	messages := list.Messages
	if len(messages) > detailLimit {
		messages = messages[:detailLimit]
	}

	summaries := make([]MessageSummary, 0, len(messages))
	for _, m := range messages {
		msg, err := svc.Users.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From").
			Context(ctx).
			Do()
		if err != nil {
			return nil, wrapGoogleError(err)
		}

		summary := MessageSummary{
			ID:      m.Id,
			Subject: "No Subject",
			Sender:  "Unknown Sender",
			Snippet: msg.Snippet,
		}
		if msg.Payload != nil {
			for _, h := range msg.Payload.Headers {
				switch h.Name {
				case "Subject":
					summary.Subject = h.Value
				case "From":
					summary.Sender = h.Value
				}
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// wrapGoogleError keeps the Google status code visible to the handler while
// normalizing the message. Expired tokens surface as ErrNotConnected so the
// frontend restarts the login flow.
func wrapGoogleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return ErrNotConnected
		}
		return fmt.Errorf("gmail request failed with status %d", apiErr.Code)
	}
	return fmt.Errorf("gmail request failed: %w", err)
}
