package events

import (
	"encoding/json"
	"time"
)

// Event types emitted over /events during a run.
const (
	TypeScrapeStarted  = "scrape_started"
	TypeScrapeProgress = "scrape_progress"
	TypeContactFound   = "contact_found"
	TypeScrapeFinished = "scrape_finished"
)

type Event struct {
	Type      string          `json:"type"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
