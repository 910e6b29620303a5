package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nosaterra/apiserver/config"
	"github.com/nosaterra/apiserver/internal/auth"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/nosaterra/apiserver/types"
	"github.com/sirupsen/logrus"
)

// seedAdmin creates the configured admin account at startup if no user
// exists with that email. Seeding is skipped when no admin email is
// configured.
func seedAdmin(ctx context.Context, cfg config.AdminConfig, userService *services.UserService, logger *logrus.Logger) error {
	if cfg.Email == "" {
		return nil
	}

	_, err := userService.GetByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if cfg.Password == "" {
		logger.WithField("email", cfg.Email).
			Warn("admin seeding skipped: ADMIN_PASSWORD not set")
		return nil
	}

	hashed, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	if _, err := userService.Create(ctx, types.User{
		ID:           uuid.NewString(),
		Email:        cfg.Email,
		Name:         cfg.Name,
		Role:         types.RoleAdmin,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		// A concurrent instance may have seeded first.
		if errors.Is(err, store.ErrDuplicate) {
			return nil
		}
		return err
	}

	logger.WithField("email", cfg.Email).Info("admin user created")
	return nil
}
