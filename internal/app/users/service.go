// Package users handles registration and API-key lookup. Keys are shown
// once at registration; only the SHA-256 hash is stored.
package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/r88510179-collab/breakfast-klub/internal/store"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUnknownKey     = errors.New("unknown_api_key")
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

type RegisterResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	APIKey    string `json:"api_key"`
	CreatedAt string `json:"created_at"`
}

func (s *Service) Register(ctx context.Context, name string) (*RegisterResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRequest
	}
	apiKey, err := newAPIKey()
	if err != nil {
		return nil, err
	}
	id, err := s.store.CreateUser(ctx, name, apiKey)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{
		UserID:    id,
		Name:      name,
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Authenticate resolves a bearer key to its user.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*store.User, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrUnknownKey
	}
	u, err := s.store.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownKey
		}
		return nil, err
	}
	return u, nil
}

type UserItem struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type ListResponse struct {
	Items []UserItem `json:"items"`
}

func (s *Service) List(ctx context.Context, limit, offset int) (*ListResponse, error) {
	rows, err := s.store.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]UserItem, 0, len(rows))
	for _, u := range rows {
		out = append(out, UserItem{
			UserID:    u.ID,
			Name:      u.Name,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &ListResponse{Items: out}, nil
}

func newAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "bk_live_" + hex.EncodeToString(buf), nil
}
