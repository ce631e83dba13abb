package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	StageChanged         = "STAGE_CHANGED"
	RequirementsReplaced = "REQUIREMENTS_REPLACED"
	RequirementsAppended = "REQUIREMENTS_APPENDED"
)

// Event is anything the conversation engine announces after a committed transition.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewStageChanged(projectId, from, to, lang string) BaseEvent {
	return BaseEvent{
		Type: StageChanged,
		Data: map[string]interface{}{
			"project_id": projectId,
			"from":       from,
			"to":         to,
			"lang":       lang,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewRequirementsWritten builds REQUIREMENTS_REPLACED or REQUIREMENTS_APPENDED depending on mode.
func NewRequirementsWritten(projectId, mode, category string, count int) BaseEvent {
	typ := RequirementsReplaced
	if mode == "append" {
		typ = RequirementsAppended
	}
	data := map[string]interface{}{
		"project_id": projectId,
		"count":      count,
	}
	if category != "" {
		data["category"] = category
	}
	return BaseEvent{Type: typ, Data: data, OccurredAt: time.Now().UTC()}
}

func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Decode(data []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}
