package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/storage"
)

// Roles a token can carry.
const (
	RoleAdmin  = "admin"
	RoleSales  = "sales"
	RoleViewer = "viewer"
)

// Protected objects and actions.
const (
	ObjTariffs     = "tariffs"
	ObjComparisons = "comparisons"
	ObjInvoices    = "invoices"
	ObjCatalogSync = "catalog_sync"

	ActRead  = "read"
	ActWrite = "write"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrUnknownRole  = errors.New("auth: unknown role")
)

// TokenStore is the persistence the service needs. storage.Storage
// satisfies it.
type TokenStore interface {
	CreateToken(ctx context.Context, token storage.Token) error
	GetTokenByHash(ctx context.Context, hash string) (*storage.Token, error)
	ListTokens(ctx context.Context) ([]storage.Token, error)
	DeleteToken(ctx context.Context, id string) error
	UpdateTokenLastUsed(ctx context.Context, id string) error
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

type Service struct {
	store    TokenStore
	enforcer *casbin.Enforcer
	log      *zap.Logger
}

func NewService(store TokenStore, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{RoleAdmin, "*", "*"},
		// sales runs and stores comparisons, reads the catalog and invoices
		{RoleSales, ObjTariffs, ActRead},
		{RoleSales, ObjComparisons, ActRead},
		{RoleSales, ObjComparisons, ActWrite},
		{RoleSales, ObjInvoices, ActWrite},
		{RoleViewer, ObjTariffs, ActRead},
		{RoleViewer, ObjComparisons, ActRead},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("auth: add policy %v: %w", p, err)
		}
	}
	return &Service{store: store, enforcer: e, log: log}, nil
}

// ValidRole reports whether role has any policy attached.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSales, RoleViewer:
		return true
	}
	return false
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CreateToken stores a new token and returns it with its raw value. The raw
// value is not recoverable afterwards.
func (s *Service) CreateToken(ctx context.Context, name, role string, expiresAt *time.Time) (*storage.Token, string, error) {
	if !ValidRole(role) {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	raw := uuid.NewString() + uuid.NewString()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, "", err
	}
	t := storage.Token{
		ID:        id.String(),
		Name:      name,
		TokenHash: hashToken(raw),
		Role:      role,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	if err := s.store.CreateToken(ctx, t); err != nil {
		return nil, "", err
	}
	s.log.Info("api token created", zap.String("id", t.ID), zap.String("name", name), zap.String("role", role))
	return &t, raw, nil
}

// ValidateToken resolves a raw bearer value to its stored token.
func (s *Service) ValidateToken(ctx context.Context, raw string) (*storage.Token, error) {
	t, err := s.store.GetTokenByHash(ctx, hashToken(raw))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrInvalidToken
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	go func(id string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.UpdateTokenLastUsed(ctx, id); err != nil {
			s.log.Warn("update token last used", zap.String("id", id), zap.Error(err))
		}
	}(t.ID)

	return t, nil
}

func (s *Service) ListTokens(ctx context.Context) ([]storage.Token, error) {
	return s.store.ListTokens(ctx)
}

func (s *Service) RevokeToken(ctx context.Context, id string) error {
	if err := s.store.DeleteToken(ctx, id); err != nil {
		return err
	}
	s.log.Info("api token revoked", zap.String("id", id))
	return nil
}

// Enforce checks whether role may perform act on obj.
func (s *Service) Enforce(role, obj, act string) (bool, error) {
	return s.enforcer.Enforce(role, obj, act)
}
