package model

import (
	"encoding/json"
	"time"
)

// Account identifies one ad account to sync. Label doubles as the sheet tab name.
type Account struct {
	ID    string
	Label string
}

// ActivityEvent is one change record from the Graph activities endpoint.
type ActivityEvent struct {
	EventTime           string          `json:"event_time"`
	EventType           string          `json:"event_type"`
	TranslatedEventType string          `json:"translated_event_type"`
	ActorID             string          `json:"actor_id"`
	ActorName           string          `json:"actor_name"`
	ObjectID            string          `json:"object_id"`
	ObjectName          string          `json:"object_name"`
	ObjectType          string          `json:"object_type"`
	ExtraData           json.RawMessage `json:"extra_data"`
}

// ReportRow is one sheet-bound row. Column order is fixed:
// timestamp, event label, campaign, ad set, object type, object name, actor, details.
type ReportRow struct {
	Time       time.Time
	Event      string
	Campaign   string
	AdSet      string
	ObjectType string
	ObjectName string
	Actor      string
	Details    string
}

// Values renders the row in sheet column order.
func (r ReportRow) Values() []interface{} {
	ts := ""
	if !r.Time.IsZero() {
		ts = r.Time.UTC().Format(time.RFC3339)
	}
	return []interface{}{ts, r.Event, r.Campaign, r.AdSet, r.ObjectType, r.ObjectName, r.Actor, r.Details}
}

// NotificationRow is one entry in the whitelist digest e-mail.
type NotificationRow struct {
	Account  string
	Campaign string
	AdSet    string
	Object   string
	Change   string
	Actor    string
	Time     time.Time
	Info     string
}
