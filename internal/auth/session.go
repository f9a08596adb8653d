// Package auth manages the locally stored user record. There is no real
// identity verification; signing in simply persists {id, email}.
package auth

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/storage"
)

var validate = validator.New()

type SignInRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func ValidateSignInRequest(req *SignInRequest) error {
	return validate.Struct(req)
}

type Session struct {
	store  storage.KVStore
	logger internal.Logger
}

func NewSession(store storage.KVStore, logger internal.Logger) *Session {
	return &Session{store: store, logger: logger}
}

func (s *Session) SignIn(ctx context.Context, email string) (*internal.User, error) {
	user := &internal.User{
		ID:    uuid.NewString(),
		Email: email,
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, storage.KeyHealthUser, string(raw)); err != nil {
		s.logger.Errorf("auth: failed to persist user: %v", err)
		return nil, err
	}
	return user, nil
}

func (s *Session) SignOut(ctx context.Context) error {
	return s.store.Delete(ctx, storage.KeyHealthUser)
}

// Current returns the stored user, or false when none is usable.
func (s *Session) Current(ctx context.Context) (*internal.User, bool) {
	raw, ok, err := s.store.Get(ctx, storage.KeyHealthUser)
	if err != nil || !ok {
		return nil, false
	}
	var user internal.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warnf("auth: corrupt stored user: %v", err)
		return nil, false
	}
	return &user, true
}
