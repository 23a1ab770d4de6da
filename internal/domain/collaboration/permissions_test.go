package collaboration

import (
	"reflect"
	"testing"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

func TestPermissionsForTable(t *testing.T) {
	cases := map[Role][]Capability{
		RoleOwner:     {CapAppointments, CapClients, CapDeactivate, CapDelete, CapEdit, CapFinancial, CapInvite},
		RoleLawyer:    {CapAppointments, CapClients, CapFinancial},
		RoleIntern:    {CapAppointments, CapClients},
		RoleFinancial: {CapFinancial},
		Role("admin"): {},
		Role(""):      {},
	}

	for role, want := range cases {
		got := PermissionsFor(role)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%q: want %v, got %v", role, want, got)
		}
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	caps := PermissionsFor(RoleIntern)
	caps[0] = CapDelete

	if ForRole("u", "p", RoleIntern).Can(CapDelete) {
		t.Fatal("mutating a returned slice must not change the table")
	}
}

func TestAccessGates(t *testing.T) {
	cases := []struct {
		role                                 Role
		owner, edit, invite, deactivate, fin bool
	}{
		{RoleOwner, true, true, true, true, true},
		{RoleLawyer, false, false, false, false, true},
		{RoleIntern, false, false, false, false, false},
		{RoleFinancial, false, false, false, false, true},
		{Role("ghost"), false, false, false, false, false},
	}

	for _, tc := range cases {
		a := ForRole("u1", "p1", tc.role)
		if a.IsOwner() != tc.owner || a.CanEdit() != tc.edit || a.CanDelete() != tc.edit ||
			a.CanInvite() != tc.invite || a.CanDeactivate() != tc.deactivate || a.CanViewFinancial() != tc.fin {
			t.Errorf("%q: unexpected gates %+v", tc.role, a)
		}
	}

	if NoAccess("u", "p").HasAccess() {
		t.Fatal("no access must have empty permissions")
	}
}

func TestAcceptBuildsCollaborationFromTable(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	inv := &models.CollaborationInvite{ID: "i1", PageID: "p1", OwnerID: "owner", TargetUserID: "x", Role: string(RoleIntern), Status: string(InvitePending)}

	if _, err := Accept(inv, "someone-else", "c1", now); !httperr.IsBusiness(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	c, err := Accept(inv, "x", "c1", now)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if inv.Status != string(InviteAccepted) || inv.RespondedAt == nil {
		t.Fatal("invite not marked accepted")
	}
	if !reflect.DeepEqual([]string(c.Permissions), []string{"appointments", "clients"}) {
		t.Fatalf("unexpected permissions %v", c.Permissions)
	}

	if err := Decline(inv, "x", now); !httperr.IsBusiness(err, ErrInviteNotPending) {
		t.Fatalf("expected invite_not_pending, got %v", err)
	}
}

func TestChangeRoleRejectsOwner(t *testing.T) {
	c := &models.Collaboration{Role: string(RoleIntern)}
	if err := ChangeRole(c, RoleOwner); !httperr.IsBusiness(err, ErrInvalidRole) {
		t.Fatalf("expected invalid_role, got %v", err)
	}
	if err := ChangeRole(c, RoleFinancial); err != nil {
		t.Fatalf("change role: %v", err)
	}
	if !reflect.DeepEqual([]string(c.Permissions), []string{"financial"}) {
		t.Fatalf("permissions not re-derived: %v", c.Permissions)
	}
}

func TestResolve(t *testing.T) {
	page := &models.LawyerPage{ID: "p1", OwnerID: "owner"}

	if a := Resolve(page, "owner", nil); !a.IsOwner() || !a.CanDelete() {
		t.Fatalf("owner must be synthesised with the full set, got %+v", a)
	}

	intern := &models.Collaboration{PageID: "p1", UserID: "u2", Role: string(RoleIntern)}
	a := Resolve(page, "u2", intern)
	if a.Role != RoleIntern || a.CanViewFinancial() || !a.Can(CapClients) {
		t.Fatalf("unexpected intern access %+v", a)
	}

	if a := Resolve(page, "u3", nil); a.HasAccess() || a.Role != "" {
		t.Fatalf("stranger must have no access, got %+v", a)
	}

	other := &models.Collaboration{PageID: "p2", UserID: "u2", Role: string(RoleLawyer)}
	if a := Resolve(page, "u2", other); a.HasAccess() {
		t.Fatal("collaboration of another page must not grant access")
	}

	ghost := &models.Collaboration{PageID: "p1", UserID: "u4", Role: "ghost"}
	if a := Resolve(page, "u4", ghost); a.HasAccess() {
		t.Fatal("unknown role must resolve to an empty set")
	}
}
