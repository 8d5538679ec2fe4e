package handlers

import (
	"time"

	"github.com/BruksfildServices01/findcut/internal/audit"
)

func writeAudit(
	events *audit.Dispatcher,
	entity string,
	action string,
	entityID string,
	meta any,
) {
	events.Dispatch(audit.Event{
		Store:    entity,
		Action:   action,
		EntityID: entityID,
		Metadata: meta,
		At:       time.Now(),
	})
}
