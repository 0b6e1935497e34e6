// Package notify posts a CollectionExecutionResult summary to a Slack
// incoming webhook. Adapted from packages/notify/slack.go's
// SlackNotifier, narrowed from its RunSummary/FailedTest shape to
// exec.CollectionExecutionResult/ExecutionResult.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// SlackNotifier posts collection run summaries to a Slack webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	client     *http.Client
}

// SlackOption configures a SlackNotifier.
type SlackOption func(*SlackNotifier)

func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) { s.channel = channel }
}

func WithSlackUsername(username string) SlackOption {
	return func(s *SlackNotifier) { s.username = username }
}

// NewSlackNotifier builds a SlackNotifier posting to webhookURL.
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "hitcall",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify posts a run summary derived from result.
func (s *SlackNotifier) Notify(result *exec.CollectionExecutionResult) error {
	color := "good"
	title := "All requests passed"
	if result.Failed > 0 {
		color = "danger"
		title = fmt.Sprintf("%d request(s) failed", result.Failed)
	}

	fields := []slackField{
		{Title: "Passed", Value: fmt.Sprintf("%d", result.Passed), Short: true},
		{Title: "Failed", Value: fmt.Sprintf("%d", result.Failed), Short: true},
		{Title: "Skipped", Value: fmt.Sprintf("%d", result.Skipped), Short: true},
		{Title: "Duration", Value: result.Duration.Round(time.Millisecond).String(), Short: true},
	}

	var text string
	for _, r := range result.Results {
		if r.Status == exec.StatusFailed && r.Error != nil {
			text += fmt.Sprintf("• `%s`: %s\n", r.Request.Name, r.Error.Error())
		}
	}

	msg := slackMessage{
		Channel:  s.channel,
		Username: s.username,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  title,
			Text:   text,
			Fields: fields,
			Footer: "hitcall",
			TS:     time.Now().Unix(),
		}},
	}

	return s.send(msg)
}

func (s *SlackNotifier) send(msg slackMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
