// Package notify pushes comment events to the chat-bot platform. The
// webhook is best-effort: failures are logged and dropped, never retried,
// and never block or fail the write that triggered them.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CommentEvent is the payload the bot expects for a new novel comment.
type CommentEvent struct {
	AuthorName   string `json:"authorName"`
	CommentText  string `json:"commentText"`
	NovelTitle   string `json:"novelTitle"`
	ChapterTitle string `json:"chapterTitle"`
	ReplyToUid   string `json:"replyToUid"`
}

// BotNotifier posts events to a single webhook URL authenticated with a
// bearer secret. A notifier with an empty URL is valid and drops every
// event, which is how local development runs.
type BotNotifier struct {
	url    string
	secret string
	client *http.Client
}

func NewBotNotifier(url, secret string) *BotNotifier {
	return &BotNotifier{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyComment delivers one event. Callers run it in a goroutine and log
// the returned error; there is no retry.
func (n *BotNotifier) NotifyComment(event CommentEvent) error {
	if n.url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: encode event: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.secret)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: bot webhook answered %d", resp.StatusCode)
	}
	return nil
}
