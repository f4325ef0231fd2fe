package domain

import "time"

// EventType names a user action recorded in the event log.
type EventType string

const (
	EventCartPurchase     EventType = "cartPurchase"
	EventWebsiteOpen      EventType = "websiteOpen"
	EventRecipeImpression EventType = "recipeImpression"
)

// Event is a fire-and-forget record of a user action.
type Event struct {
	UserID        int
	OSType        string
	Type          EventType
	Timestamp     time.Time
	Parameter     map[string]any
	PartitionDate string // yyyy-mm-dd of Timestamp
}

// NewEvent stamps an event with the current time.
func NewEvent(userID int, osType string, typ EventType, param map[string]any) Event {
	now := time.Now()
	return Event{
		UserID:        userID,
		OSType:        osType,
		Type:          typ,
		Timestamp:     now,
		Parameter:     param,
		PartitionDate: now.Format("2006-01-02"),
	}
}
