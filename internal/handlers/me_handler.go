package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
)

type MeHandler struct {
	users account.Repository
}

func NewMeHandler(users account.Repository) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, account.ErrUserNotFound, "Sessão inválida.")
			return
		}
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"user": user})
}
