package session

// EventType names something that happened during a step.
type EventType string

const (
	EventTreatGiven      EventType = "treat.given"
	EventTreatMissed     EventType = "treat.missed"
	EventSitUnlocked     EventType = "sit.unlocked"
	EventSitSucceeded    EventType = "sit.succeeded"
	EventSitFailed       EventType = "sit.failed"
	EventSitLocked       EventType = "sit.locked"
	EventDogCommand      EventType = "dog.command"
	EventDogBackOff      EventType = "dog.back_off"
	EventStimulusContact EventType = "stimulus.contact"
	EventLevelWon        EventType = "level.won"
	EventLevelLost       EventType = "level.lost"
)

// Event is emitted by Step in the order things happened.
type Event struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Types lists the event types in order, handy for assertions and logs.
func Types(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}
