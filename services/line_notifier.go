package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultLinePushEndpoint = "https://api.line.me/v2/bot/message/push"

// LineNotifier pushes text messages through the LINE Messaging API.
type LineNotifier struct {
	Endpoint     string
	ChannelToken string
	TargetID     string
	Client       *http.Client
}

func NewLineNotifier(token, target string) *LineNotifier {
	return &LineNotifier{
		Endpoint:     defaultLinePushEndpoint,
		ChannelToken: token,
		TargetID:     target,
		Client:       &http.Client{Timeout: 15 * time.Second},
	}
}

type linePushRequest struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (n *LineNotifier) Notify(ctx context.Context, text string) error {
	payload := linePushRequest{
		To:       n.TargetID,
		Messages: []lineMessage{{Type: "text", Text: text}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal line payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.ChannelToken)

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
