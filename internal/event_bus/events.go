package event_bus

const (
	RosterEventCreated EventType = "roster.event.created"
	RosterEventUpdated EventType = "roster.event.updated"
	RosterEventDeleted EventType = "roster.event.deleted"
)

// EventCreated is published after the store acknowledged a new event.
type EventCreated struct {
	Id             string
	Name           string
	ScheduleSlot   string
	ParticipantIds []string
}

// EventUpdated is published after an update was acknowledged and the event re-fetched.
type EventUpdated struct {
	Id             string
	Name           string
	ScheduleSlot   string
	ParticipantIds []string
}

type EventDeleted struct {
	Id    string
	Index int
}
