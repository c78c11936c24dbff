package event_roster

import "strings"

// Messages are the user-visible texts written to the controller's current error.
type Messages struct {
	NameRequired     string
	ScheduleRequired string
	AddressRequired  string
	DateTimeRequired string
	CreateFailed     string
	UpdateFailed     string
	ReloadFailed     string
	DeleteFailed     string
}

var English = Messages{
	NameRequired:     "Event name is required.",
	ScheduleRequired: "Select the event date and time.",
	AddressRequired:  "Event address is required.",
	DateTimeRequired: "Select a date and a time.",
	CreateFailed:     "Failed to create the event.",
	UpdateFailed:     "Failed to update the event.",
	ReloadFailed:     "Failed to reload the updated event.",
	DeleteFailed:     "Failed to delete the event.",
}

var Spanish = Messages{
	NameRequired:     "El título del evento es obligatorio.",
	ScheduleRequired: "Selecciona el horario del evento.",
	AddressRequired:  "Selecciona la dirección del evento.",
	DateTimeRequired: "Selecciona fecha y hora.",
	CreateFailed:     "Error al crear el evento.",
	UpdateFailed:     "Error al actualizar el evento.",
	ReloadFailed:     "Error al recargar el evento actualizado.",
	DeleteFailed:     "Error al eliminar el evento.",
}

// MessagesFor returns the catalog for a locale such as "es" or "es-ES", defaulting to English.
func MessagesFor(locale string) Messages {
	lang, _, _ := strings.Cut(strings.ToLower(locale), "-")
	lang, _, _ = strings.Cut(lang, "_")
	if lang == "es" {
		return Spanish
	}
	return English
}
