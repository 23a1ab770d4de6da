package collaboration

import (
	"context"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// Access é o resultado único da resolução de permissões de (usuário, página).
// O dono é sintetizado como papel owner na hora da consulta.
type Access struct {
	UserID      string       `json:"user_id"`
	PageID      string       `json:"page_id"`
	Role        Role         `json:"role,omitempty"`
	Permissions []Capability `json:"permissions"`
}

// Resolver devolve o acesso efetivo de um usuário a uma página.
type Resolver interface {
	Resolve(ctx context.Context, userID, pageID string) (Access, error)
}

func NoAccess(userID, pageID string) Access {
	return Access{UserID: userID, PageID: pageID, Permissions: []Capability{}}
}

func ForRole(userID, pageID string, role Role) Access {
	if !role.Valid() {
		return NoAccess(userID, pageID)
	}
	return Access{UserID: userID, PageID: pageID, Role: role, Permissions: PermissionsFor(role)}
}

// Resolve: o dono da página vale como owner; os demais usam a colaboração (ou nada).
func Resolve(page *models.LawyerPage, userID string, c *models.Collaboration) Access {
	if page == nil || userID == "" {
		return NoAccess(userID, "")
	}
	if page.OwnerID == userID {
		return ForRole(userID, page.ID, RoleOwner)
	}
	if c == nil || c.UserID != userID || c.PageID != page.ID {
		return NoAccess(userID, page.ID)
	}
	return ForRole(userID, page.ID, Role(c.Role))
}

func (a Access) IsOwner() bool {
	return a.Role == RoleOwner
}

func (a Access) HasAccess() bool {
	return len(a.Permissions) > 0
}

func (a Access) Can(c Capability) bool {
	for _, p := range a.Permissions {
		if p == c {
			return true
		}
	}
	return false
}

func (a Access) CanEdit() bool          { return a.Can(CapEdit) }
func (a Access) CanDelete() bool        { return a.Can(CapDelete) }
func (a Access) CanInvite() bool        { return a.Can(CapInvite) }
func (a Access) CanDeactivate() bool    { return a.Can(CapDeactivate) }
func (a Access) CanViewFinancial() bool { return a.Can(CapFinancial) }

// Require resolve o acesso e exige a capacidade pedida.
func Require(ctx context.Context, r Resolver, userID, pageID string, c Capability) (Access, error) {
	a, err := r.Resolve(ctx, userID, pageID)
	if err != nil {
		return a, err
	}
	if !a.Can(c) {
		return a, httperr.ErrBusiness(ErrForbidden)
	}
	return a, nil
}
