package collaboration

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/advoga-scheduler/internal/logger"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type fixture struct {
	store  *memory.Store
	broker *events.Local
	sink   *audit.MemorySink
	disp   *audit.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:  memory.NewStore(),
		broker: events.NewLocal(),
		sink:   audit.NewMemorySink(),
	}
	f.disp = audit.NewDispatcher(f.sink, logger.Nop())
	t.Cleanup(f.disp.Close)

	ctx := context.Background()
	for _, u := range []models.User{
		{ID: "owner", Name: "Dra. Ana", Email: "ana@advoga.com", Code: "ADV-OWNER001"},
		{ID: "userx", Name: "Bruno", Email: "bruno@advoga.com", Code: "ADV-USERX001"},
	} {
		u := u
		if err := f.store.CreateUser(ctx, &u); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.store.CreatePage(ctx, &models.LawyerPage{ID: "p1", OwnerID: "owner", Slug: "dra-ana", Name: "Dra. Ana"}); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) send(in SendInviteInput) (*models.CollaborationInvite, error) {
	return NewSendInvite(f.store, f.broker, f.disp, logger.Nop()).Execute(context.Background(), in)
}

func TestInternInviteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.send(SendInviteInput{OwnerID: "owner", PageID: "p1", TargetCode: "adv-userx001", Role: "intern"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if inv.Status != string(domain.InvitePending) || inv.TargetUserID != "userx" {
		t.Fatalf("unexpected invite %+v", inv)
	}

	collab, err := NewAcceptInvite(f.store, f.broker, f.disp, logger.Nop()).Execute(ctx, "userx", inv.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if collab.Role != string(domain.RoleIntern) {
		t.Fatalf("unexpected collaboration %+v", collab)
	}

	stored, _ := f.store.GetInvite(ctx, inv.ID)
	if stored.Status != string(domain.InviteAccepted) || stored.RespondedAt == nil {
		t.Fatalf("invite should be accepted, got %+v", stored)
	}

	a, err := NewResolveAccess(f.store).Resolve(ctx, "userx", "p1")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Capability{domain.CapAppointments, domain.CapClients}
	if len(a.Permissions) != 2 || a.Permissions[0] != want[0] || a.Permissions[1] != want[1] {
		t.Fatalf("want %v, got %v", want, a.Permissions)
	}
	if a.CanViewFinancial() {
		t.Fatal("intern must not view financial")
	}
}

func TestSendInviteRules(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		in   SendInviteInput
		code string
	}{
		{"owner role", SendInviteInput{OwnerID: "owner", PageID: "p1", TargetCode: "ADV-USERX001", Role: "owner"}, domain.ErrInvalidRole},
		{"not owner", SendInviteInput{OwnerID: "userx", PageID: "p1", TargetCode: "ADV-OWNER001", Role: "lawyer"}, domain.ErrForbidden},
		{"self", SendInviteInput{OwnerID: "owner", PageID: "p1", TargetEmail: "ANA@advoga.com", Role: "lawyer"}, domain.ErrSelfInvite},
		{"unknown target", SendInviteInput{OwnerID: "owner", PageID: "p1", TargetEmail: "ghost@advoga.com", Role: "lawyer"}, domain.ErrTargetNotFound},
		{"no target", SendInviteInput{OwnerID: "owner", PageID: "p1", Role: "lawyer"}, domain.ErrTargetNotFound},
		{"missing page", SendInviteInput{OwnerID: "owner", PageID: "nope", TargetCode: "ADV-USERX001", Role: "lawyer"}, domain.ErrPageNotFound},
	}

	for _, tc := range cases {
		_, err := f.send(tc.in)
		if httperr.CodeOf(err) != tc.code {
			t.Errorf("%s: want %s, got %v", tc.name, tc.code, err)
		}
	}

	in := SendInviteInput{OwnerID: "owner", PageID: "p1", TargetEmail: "bruno@advoga.com", Role: "lawyer"}
	if _, err := f.send(in); err != nil {
		t.Fatal(err)
	}
	if _, err := f.send(in); httperr.CodeOf(err) != domain.ErrInvitePending {
		t.Fatalf("duplicate pending invite must fail, got %v", err)
	}
}

func TestInviteEventsReachBothParties(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox, _ := f.broker.Subscribe(ctx, "userx")
	outbox, _ := f.broker.Subscribe(ctx, "owner")

	inv, err := f.send(SendInviteInput{OwnerID: "owner", PageID: "p1", TargetCode: "ADV-USERX001", Role: "financial"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewDeclineInvite(f.store, f.broker, f.disp, logger.Nop()).Execute(context.Background(), "userx", inv.ID); err != nil {
		t.Fatal(err)
	}

	for _, ch := range []<-chan events.InviteEvent{inbox, outbox} {
		for _, want := range []string{events.InviteSent, events.InviteDeclined} {
			select {
			case ev := <-ch:
				if ev.Type != want || ev.InviteID != inv.ID {
					t.Fatalf("want %s for %s, got %+v", want, inv.ID, ev)
				}
			case <-time.After(time.Second):
				t.Fatalf("timeout waiting for %s", want)
			}
		}
	}
}

func TestDeclineAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.send(SendInviteInput{OwnerID: "owner", PageID: "p1", TargetCode: "ADV-USERX001", Role: "lawyer"})
	if err != nil {
		t.Fatal(err)
	}

	decline := NewDeclineInvite(f.store, f.broker, f.disp, logger.Nop())
	if _, err := decline.Execute(ctx, "owner", inv.ID); httperr.CodeOf(err) != domain.ErrForbidden {
		t.Fatalf("only the target may decline, got %v", err)
	}
	if _, err := decline.Execute(ctx, "userx", inv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := NewAcceptInvite(f.store, f.broker, f.disp, logger.Nop()).Execute(ctx, "userx", inv.ID); httperr.CodeOf(err) != domain.ErrInviteNotPending {
		t.Fatalf("declined invite cannot be accepted, got %v", err)
	}

	del := NewDeleteInvite(f.store, f.broker, f.disp, logger.Nop())
	if err := del.Execute(ctx, "userx", inv.ID); httperr.CodeOf(err) != domain.ErrForbidden {
		t.Fatalf("only the owner may delete, got %v", err)
	}
	if err := del.Execute(ctx, "owner", inv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.store.GetInvite(ctx, inv.ID); err == nil {
		t.Fatal("invite should be gone")
	}
}

func TestChangeRoleAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, _ := f.send(SendInviteInput{OwnerID: "owner", PageID: "p1", TargetCode: "ADV-USERX001", Role: "intern"})
	collab, err := NewAcceptInvite(f.store, f.broker, f.disp, logger.Nop()).Execute(ctx, "userx", inv.ID)
	if err != nil {
		t.Fatal(err)
	}

	change := NewChangeRole(f.store, f.disp)
	if _, err := change.Execute(ctx, "userx", "p1", collab.ID, "lawyer"); httperr.CodeOf(err) != domain.ErrForbidden {
		t.Fatalf("collaborator cannot change roles, got %v", err)
	}
	updated, err := change.Execute(ctx, "owner", "p1", collab.ID, "financial")
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Permissions) != 1 || updated.Permissions[0] != string(domain.CapFinancial) {
		t.Fatalf("permissions must follow the role table, got %v", updated.Permissions)
	}

	a, _ := NewResolveAccess(f.store).Resolve(ctx, "userx", "p1")
	if !a.CanViewFinancial() || a.Can(domain.CapClients) {
		t.Fatalf("new role must apply on next resolution, got %+v", a)
	}

	if err := NewRemoveCollaborator(f.store, f.disp).Execute(ctx, "userx", "p1", collab.ID); err != nil {
		t.Fatalf("collaborator may leave: %v", err)
	}
	a, _ = NewResolveAccess(f.store).Resolve(ctx, "userx", "p1")
	if a.HasAccess() {
		t.Fatal("removed collaborator must lose access")
	}
}
