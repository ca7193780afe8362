package auth

import (
	"context"
	"fmt"
	"time"

	"alhidayah-backend/internal/cache"
	"alhidayah-backend/internal/models"

	"github.com/google/uuid"
)

// SessionUser oturumda saklanan tek şey: çözümlenmiş kullanıcı.
type SessionUser struct {
	UID   string          `json:"uid"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
	Phone string          `json:"phone,omitempty"`
}

func NewSessionUser(u *models.User) *SessionUser {
	return &SessionUser{
		UID:   u.UID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		Phone: u.Phone,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// SessionsEnabled redis yoksa oturumlar sadece imzalı token'dan ibarettir.
func SessionsEnabled() bool {
	return cache.Client != nil
}

func CreateSession(ctx context.Context, user *SessionUser, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	if err := cache.SetJSON(ctx, sessionKey(id), user, ttl); err != nil {
		return "", fmt.Errorf("oturum kaydedilemedi: %w", err)
	}
	return id, nil
}

func GetSession(ctx context.Context, id string) (*SessionUser, bool, error) {
	var user SessionUser
	ok, err := cache.GetJSON(ctx, sessionKey(id), &user)
	if err != nil || !ok {
		return nil, false, err
	}
	return &user, true, nil
}

func DeleteSession(ctx context.Context, id string) error {
	return cache.Delete(ctx, sessionKey(id))
}
