package engine

import (
	"time"
)

// Entity kinds, following the platform's message annotation model.
const (
	EntityURL         = "url"
	EntityTextLink    = "text_link"
	EntityMention     = "mention"
	EntityCustomEmoji = "custom_emoji"
)

// A span annotation over the message text, as delivered by the platform.
type Entity struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	URL   string `json:"url,omitempty"`
}

type Sender struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	IsBot       bool   `json:"is_bot"`
}

// Inbound chat message. Immutable once received.
type Message struct {
	Text          string    `json:"text"`
	Entities      []Entity  `json:"entities,omitempty"`
	Sender        Sender    `json:"sender"`
	ChatID        string    `json:"chat_id"`
	Forwarded     bool      `json:"forwarded"`
	ForwardOrigin string    `json:"forward_origin,omitempty"`
	ReceivedAt    time.Time `json:"received_at"`
}

func (m *Message) HasEntityKind(kind string) bool {
	for _, e := range m.Entities {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func (m *Message) CountEntityKind(kind string) int {
	n := 0
	for _, e := range m.Entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// EntityURLs returns URLs carried by entities (either explicit entity URLs,
// or the covered text span for bare url entities).
func (m *Message) EntityURLs() []string {
	var out []string
	raw := []byte(m.Text)
	for _, e := range m.Entities {
		if e.Kind != EntityURL && e.Kind != EntityTextLink {
			continue
		}
		if e.URL != "" {
			out = append(out, e.URL)
			continue
		}
		if e.Start >= 0 && e.End <= len(raw) && e.Start < e.End {
			out = append(out, string(raw[e.Start:e.End]))
		}
	}
	return out
}
