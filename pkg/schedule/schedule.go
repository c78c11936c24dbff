// Package schedule converts the loosely typed schedule and participant fields sent by the
// event backend into their canonical in-memory shape, and formats slots for display.
//
// A slot is a single "YYYY-MM-DD HH:MM" string. An event carries zero or one slot.
package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// Placeholder is displayed for a missing or unreadable slot.
	Placeholder = "-"

	slotLayout = "2006-01-02 15:04"
)

var (
	ErrDateRequired = errors.New("schedule date is required")
	ErrTimeRequired = errors.New("schedule time is required")
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Decode accepts an absent value, null, a bare string or an array of strings and returns
// at most one slot.
func Decode(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return slotOf(single)
	}

	var many []json.RawMessage
	if err := json.Unmarshal(raw, &many); err != nil {
		return []string{}
	}
	for _, item := range many {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if slot := slotOf(s); len(slot) == 1 {
			return slot
		}
	}
	return []string{}
}

func slotOf(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return []string{canonical(s)}
}

// canonical rewrites T-separated ISO timestamps to the slot layout. Anything else is kept as is.
func canonical(s string) string {
	if strings.ContainsRune(s, ' ') || !strings.ContainsRune(s, 'T') {
		return s
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(slotLayout)
		}
	}
	return s
}

// Encode joins a date and a time into a slot. Both parts are required.
func Encode(date, clock string) (string, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return "", ErrDateRequired
	}
	if clock == "" {
		return "", ErrTimeRequired
	}
	return date + " " + clock, nil
}

// Split returns the date and time parts of a slot.
func Split(slot string) (date, clock string) {
	sep := " "
	if strings.Contains(slot, "T") {
		sep = "T"
	}
	date, clock, _ = strings.Cut(slot, sep)
	return date, clock
}

// Format renders a slot as "DD-MM-YYYY HH:MM", or Placeholder when it cannot be read.
func Format(slot string) string {
	if strings.TrimSpace(slot) == "" {
		return Placeholder
	}
	date, clock := Split(slot)

	parts := strings.Split(date, "-")
	if len(parts) != 3 || !digits(parts[0], 4) || !digits(parts[1], 2) || !digits(parts[2], 2) {
		return Placeholder
	}
	if len(clock) < 5 || !digits(clock[0:2], 2) || clock[2] != ':' || !digits(clock[3:5], 2) {
		return Placeholder
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0] + " " + clock[:5]
}

// FormatSlots formats the first slot of a schedule.
func FormatSlots(slots []string) string {
	if len(slots) == 0 {
		return Placeholder
	}
	return Format(slots[0])
}

func digits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DecodeParticipants accepts an array of user ids or of user objects and returns the ordered,
// de-duplicated ids. Any other shape yields no participants.
func DecodeParticipants(raw json.RawMessage) []string {
	ids := []string{}
	var items []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &items); err != nil {
		return ids
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := participantId(item)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func participantId(item json.RawMessage) string {
	var id string
	if err := json.Unmarshal(item, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var obj struct {
		MongoId string `json:"_id"`
		Id      string `json:"id"`
	}
	if err := json.Unmarshal(item, &obj); err != nil {
		return ""
	}
	if obj.MongoId != "" {
		return obj.MongoId
	}
	return obj.Id
}
