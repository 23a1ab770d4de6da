package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

const (
	ErrEmailTaken         = "email_already_exists"
	ErrInvalidCredentials = "invalid_credentials"
	ErrUserNotFound       = "user_not_found"
	ErrInvalidEmailDomain = "invalid_email_domain"
)

type Repository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserCode gera o código curto usado para convidar colaboradores.
func NewUserCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ADV-" + strings.ToUpper(raw[:8])
}
