// Package lock serializa seções "valida e depois grava" (saque, reserva de horário).
package lock

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

var ErrLockTimeout = errors.New("lock: timeout acquiring lock")

type Locker interface {
	// Acquire bloqueia até obter a chave ou o contexto acabar.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

func WithdrawalKey(professionalID string) string {
	return "lock:withdrawal:" + professionalID
}

// SlotKey serializa reservas do mesmo horário de uma página.
func SlotKey(pageID string, unix int64) string {
	return "lock:slot:" + pageID + ":" + strconv.FormatInt(unix, 10)
}

// Local é o Locker em processo, usado sem Redis e nos testes.
// Uma chave sai do mapa quando não há mais dono nem espera.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: map[string]*slot{}}
}

func (l *Local) join(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Local) leave(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	s := l.join(key)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, s)
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.leave(key, s)
		})
	}, nil
}
