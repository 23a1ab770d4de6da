// Package events entrega eventos de convite aos usuários interessados
// (caixa de entrada do convidado e caixa de saída do dono).
package events

import (
	"context"
	"sync"
	"time"
)

const (
	InviteSent     = "invite_sent"
	InviteAccepted = "invite_accepted"
	InviteDeclined = "invite_declined"
	InviteDeleted  = "invite_deleted"
)

type InviteEvent struct {
	Type         string    `json:"type"`
	InviteID     string    `json:"invite_id"`
	PageID       string    `json:"page_id"`
	OwnerID      string    `json:"owner_id"`
	TargetUserID string    `json:"target_user_id"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	At           time.Time `json:"at"`
}

type Broker interface {
	Publish(ctx context.Context, userID string, ev InviteEvent) error
	// Subscribe devolve um canal que é fechado quando ctx termina.
	Subscribe(ctx context.Context, userID string) (<-chan InviteEvent, error)
}

func channelFor(userID string) string {
	return "invites:" + userID
}

// Local distribui eventos dentro do processo.
type Local struct {
	mu   sync.Mutex
	subs map[string]map[chan InviteEvent]struct{}
}

func NewLocal() *Local {
	return &Local{subs: map[string]map[chan InviteEvent]struct{}{}}
}

func (b *Local) Publish(_ context.Context, userID string, ev InviteEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
			// assinante lento perde o evento; o próximo GET da caixa reconcilia
		}
	}
	return nil
}

func (b *Local) Subscribe(ctx context.Context, userID string) (<-chan InviteEvent, error) {
	ch := make(chan InviteEvent, 16)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = map[chan InviteEvent]struct{}{}
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		delete(b.subs[userID], ch)
		if len(b.subs[userID]) == 0 {
			delete(b.subs, userID)
		}
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// Subscribers é usado em testes.
func (b *Local) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}
