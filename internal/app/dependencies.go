package app

import (
	"context"

	"github.com/klokku/eventroster/internal/config"
	"github.com/klokku/eventroster/internal/event_bus"
	"github.com/klokku/eventroster/internal/transport"
	"github.com/klokku/eventroster/pkg/event"
	"github.com/klokku/eventroster/pkg/event_roster"
	"github.com/klokku/eventroster/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all clients, services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	BackendClient *transport.Client
	EventStore    event.Store
	UserDirectory user.Directory

	RosterController *event_roster.Controller
	RosterHandler    *event_roster.Handler
}

// BuildDependencies initializes and wires all application clients and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	subscribeAuditLog(deps.EventBus)

	deps.BackendClient = transport.NewClientFromConfig(ctx, cfg.Backend)
	deps.EventStore = event.NewStoreClient(deps.BackendClient)
	deps.UserDirectory = user.NewDirectoryClient(deps.BackendClient)

	deps.RosterController = event_roster.NewController(
		deps.EventStore,
		deps.UserDirectory,
		deps.EventBus,
		event_roster.MessagesFor(cfg.Locale),
	)
	deps.RosterHandler = event_roster.NewHandler(deps.RosterController)

	return deps
}

func subscribeAuditLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.RosterEventCreated, func(e event_bus.EventT[event_bus.EventCreated]) error {
		log.WithFields(log.Fields{
			"event":        e.Data.Id,
			"name":         e.Data.Name,
			"schedule":     e.Data.ScheduleSlot,
			"participants": len(e.Data.ParticipantIds),
		}).Info("Event created")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.RosterEventUpdated, func(e event_bus.EventT[event_bus.EventUpdated]) error {
		log.WithFields(log.Fields{
			"event":        e.Data.Id,
			"name":         e.Data.Name,
			"schedule":     e.Data.ScheduleSlot,
			"participants": len(e.Data.ParticipantIds),
		}).Info("Event updated")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.RosterEventDeleted, func(e event_bus.EventT[event_bus.EventDeleted]) error {
		log.WithFields(log.Fields{
			"event": e.Data.Id,
			"index": e.Data.Index,
		}).Info("Event deleted")
		return nil
	})
}
