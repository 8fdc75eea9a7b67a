package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// Identity is the credential in effect for the current shopper.
type Identity struct {
	Kind    enums.IdentityKind
	Token   string
	GuestID string
}

// Shopper converts the identity into the credential sent to the backend.
func (i Identity) Shopper() backend.Shopper {
	if i.Kind == enums.IdentityKindAuthenticated {
		return backend.Shopper{Token: i.Token}
	}
	return backend.Shopper{GuestID: i.GuestID}
}

func (i Identity) IsGuest() bool {
	return i.Kind == enums.IdentityKindGuest
}

// Resolver decides who the shopper is. A persisted token always wins over the guest id.
type Resolver interface {
	EnsureGuest(ctx context.Context) (string, error)
	Current(ctx context.Context) (Identity, error)
	SetToken(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	ClearGuest(ctx context.Context) error
	Claims(ctx context.Context) (*auth.ShopperClaims, bool)
}

type resolver struct {
	store   Store
	newUUID func() string
}

// NewResolver builds a resolver over store.
func NewResolver(store Store) (Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("identity store required")
	}
	return &resolver{store: store, newUUID: uuid.NewString}, nil
}

// EnsureGuest creates and persists a guest id if none exists yet.
func (r *resolver) EnsureGuest(ctx context.Context) (string, error) {
	existing, ok, err := r.lookup(ctx, KeyGuestID)
	if err != nil {
		return "", err
	}
	if ok {
		return existing, nil
	}
	guestID := r.newUUID()
	if err := r.store.Put(ctx, KeyGuestID, guestID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist guest id")
	}
	return guestID, nil
}

func (r *resolver) Current(ctx context.Context) (Identity, error) {
	token, ok, err := r.lookup(ctx, KeyAuthToken)
	if err != nil {
		return Identity{}, err
	}
	if ok {
		return Identity{Kind: enums.IdentityKindAuthenticated, Token: token}, nil
	}

	guestID, ok, err := r.lookup(ctx, KeyGuestID)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		if guestID, err = r.EnsureGuest(ctx); err != nil {
			return Identity{}, err
		}
	}
	return Identity{Kind: enums.IdentityKindGuest, GuestID: guestID}, nil
}

func (r *resolver) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if err := r.store.Put(ctx, KeyAuthToken, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist auth token")
	}
	return nil
}

// Logout forgets the token. The guest id is left alone.
func (r *resolver) Logout(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyAuthToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove auth token")
	}
	return nil
}

func (r *resolver) ClearGuest(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyGuestID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove guest id")
	}
	return nil
}

// Claims decodes the persisted token without verifying it. ok is false when there is
// no token or it cannot be decoded; precedence only depends on the token being present.
func (r *resolver) Claims(ctx context.Context) (*auth.ShopperClaims, bool) {
	token, ok, err := r.lookup(ctx, KeyAuthToken)
	if err != nil || !ok {
		return nil, false
	}
	claims, err := auth.DecodeUnverified(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (r *resolver) lookup(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := r.store.Lookup(ctx, key)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read "+key)
	}
	value = strings.TrimSpace(value)
	return value, ok && value != "", nil
}
