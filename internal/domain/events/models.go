package events

import "time"

// Status labels used by the admin surface.
const (
	StatusLive    = "live"
	StatusNotLive = "not live"
	StatusError   = "error"
	StatusUnknown = "unknown"
)

// State is the live flag tracked for a single event.
type State struct {
	EventID string `json:"eventId"`
	Live    bool   `json:"live"`
}

// Label renders the state the way the admin surface reports it.
func (s State) Label() string {
	return StatusLabel(s.Live)
}

// StatusLabel maps a live flag to its admin label.
func StatusLabel(live bool) string {
	if live {
		return StatusLive
	}
	return StatusNotLive
}

// ScoreData is the upstream payload for a single event.
type ScoreData struct {
	EventID      string `json:"eventId"`
	CurrentScore string `json:"currentScore"`
}

// ScoreMessage is the record published to the score topic.
type ScoreMessage struct {
	EventID      string    `json:"eventId"`
	CurrentScore string    `json:"currentScore"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewScoreMessage stamps score data with the publish instant in UTC.
func NewScoreMessage(data ScoreData, at time.Time) ScoreMessage {
	return ScoreMessage{
		EventID:      data.EventID,
		CurrentScore: data.CurrentScore,
		Timestamp:    at.UTC(),
	}
}
