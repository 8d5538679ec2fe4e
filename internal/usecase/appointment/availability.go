package appointment

import (
	"context"
	"time"
)

type CheckAvailability struct {
	repo Repository
}

func NewCheckAvailability(repo Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

// Execute diz se o barbeiro está livre em [start, start+duração do serviço).
// Sem serviço (ou serviço desconhecido) usa a duração padrão.
func (uc *CheckAvailability) Execute(
	ctx context.Context,
	barberID string,
	start time.Time,
	serviceID string,
) bool {

	duration := DefaultServiceDuration
	if serviceID != "" {
		if svc, err := uc.repo.GetService(ctx, serviceID); err == nil {
			duration = serviceDuration(svc)
		}
	}

	return !uc.repo.HasTimeConflict(ctx, barberID, start, start.Add(duration))
}
