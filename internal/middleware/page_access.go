package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
)

// RequirePageCapability resolve o acesso a :pageID e exige a capacidade.
// O Access resolvido fica no contexto para o handler.
func RequirePageCapability(resolver collaboration.Resolver, capability collaboration.Capability) gin.HandlerFunc {
	return requirePage(resolver, func(a collaboration.Access) bool { return a.Can(capability) })
}

// RequirePageAccess aceita qualquer papel na página.
func RequirePageAccess(resolver collaboration.Resolver) gin.HandlerFunc {
	return requirePage(resolver, collaboration.Access.HasAccess)
}

func requirePage(resolver collaboration.Resolver, allowed func(collaboration.Access) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageID := c.Param("pageID")

		access, err := resolver.Resolve(c.Request.Context(), UserID(c), pageID)
		if err != nil {
			if httperr.IsBusiness(err, collaboration.ErrPageNotFound) {
				httperr.NotFound(c, collaboration.ErrPageNotFound, "Página não encontrada.")
				return
			}
			httperr.Internal(c, "access_resolution_failed", "Erro ao verificar permissões.")
			return
		}

		if !allowed(access) {
			httperr.Forbidden(c, collaboration.ErrForbidden, "Você não tem permissão para esta ação.")
			return
		}

		c.Set(ContextAccess, access)
		c.Next()
	}
}

func PageAccess(c *gin.Context) (collaboration.Access, bool) {
	v, ok := c.Get(ContextAccess)
	if !ok {
		return collaboration.Access{}, false
	}
	a, ok := v.(collaboration.Access)
	return a, ok
}
