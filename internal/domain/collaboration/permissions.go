package collaboration

import "sort"

type Role string

const (
	RoleOwner     Role = "owner"
	RoleLawyer    Role = "lawyer"
	RoleIntern    Role = "intern"
	RoleFinancial Role = "financial"
)

type Capability string

const (
	CapEdit         Capability = "edit"
	CapDelete       Capability = "delete"
	CapInvite       Capability = "invite"
	CapClients      Capability = "clients"
	CapAppointments Capability = "appointments"
	CapFinancial    Capability = "financial"
	CapDeactivate   Capability = "deactivate"
)

var roleCapabilities = map[Role][]Capability{
	RoleOwner:     {CapEdit, CapDelete, CapInvite, CapClients, CapAppointments, CapFinancial, CapDeactivate},
	RoleLawyer:    {CapClients, CapAppointments, CapFinancial},
	RoleIntern:    {CapClients, CapAppointments},
	RoleFinancial: {CapFinancial},
}

// PermissionsFor é total: papel desconhecido devolve conjunto vazio.
func PermissionsFor(role Role) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PermissionStrings é a forma persistida em collaborations.permissions.
func PermissionStrings(role Role) []string {
	caps := PermissionsFor(role)
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}

// Invitable: o papel owner nunca vira registro de colaboração.
func (r Role) Invitable() bool {
	return r == RoleLawyer || r == RoleIntern || r == RoleFinancial
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}
