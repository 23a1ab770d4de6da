package collaboration

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// notifier publica o evento para o convidado e para o dono da página.
// Falha de publicação não desfaz a operação: as caixas continuam consultáveis.
type notifier struct {
	broker events.Broker
	log    zerolog.Logger
}

func (n notifier) publish(ctx context.Context, typ string, inv *models.CollaborationInvite, at time.Time) {
	if n.broker == nil {
		return
	}

	ev := events.InviteEvent{
		Type:         typ,
		InviteID:     inv.ID,
		PageID:       inv.PageID,
		OwnerID:      inv.OwnerID,
		TargetUserID: inv.TargetUserID,
		Role:         inv.Role,
		Status:       inv.Status,
		At:           at,
	}

	for _, userID := range []string{inv.TargetUserID, inv.OwnerID} {
		if err := n.broker.Publish(ctx, userID, ev); err != nil {
			n.log.Warn().Err(err).
				Str("event", typ).
				Str("invite_id", inv.ID).
				Msg("invite event publish failed")
		}
	}
}
