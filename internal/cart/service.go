package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

type cartAPI interface {
	GetCart(ctx context.Context, shopper backend.Shopper) (*backend.Cart, error)
	AddToCart(ctx context.Context, shopper backend.Shopper, ref backend.CartLineRef) (*backend.Cart, error)
	RemoveFromCart(ctx context.Context, shopper backend.Shopper, ref backend.CartLineRef) (*backend.Cart, error)
}

// Service holds the active shopper's cart.
//
// The backend is the source of truth: every successful mutation replaces local state with
// the snapshot the server returns, and nothing is merged client side. A failed call leaves
// the last confirmed state in place. Concurrent callers are safe, but each call still goes
// to the backend on its own.
type Service interface {
	AddLine(ctx context.Context, key LineKey, id identity.Identity) ([]Line, error)
	RemoveLine(ctx context.Context, key LineKey, id identity.Identity) ([]Line, error)
	LoadCart(ctx context.Context, id identity.Identity) ([]Line, error)
	ReplaceLines(lines []Line)
	ClearCart()
	Lines() []Line
	Snapshot() State
}

type service struct {
	api      cartAPI
	notifier notifications.Notifier
	logg     *logger.Logger

	mu    sync.RWMutex
	state State
}

// NewService builds an empty cart bound to api.
func NewService(api cartAPI, notifier notifications.Notifier, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("cart api required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, notifier: notifier, logg: logg}, nil
}

func (s *service) AddLine(ctx context.Context, key LineKey, id identity.Identity) ([]Line, error) {
	if err := validateKey(key); err != nil {
		return s.fail(ctx, "cart.add", err)
	}
	remote, err := s.api.AddToCart(ctx, id.Shopper(), key.Ref())
	if err != nil {
		return s.fail(ctx, "cart.add", err)
	}
	return s.install(remote), nil
}

func (s *service) RemoveLine(ctx context.Context, key LineKey, id identity.Identity) ([]Line, error) {
	if err := validateKey(key); err != nil {
		return s.fail(ctx, "cart.remove", err)
	}
	remote, err := s.api.RemoveFromCart(ctx, id.Shopper(), key.Ref())
	if err != nil {
		return s.fail(ctx, "cart.remove", err)
	}
	return s.install(remote), nil
}

func (s *service) LoadCart(ctx context.Context, id identity.Identity) ([]Line, error) {
	remote, err := s.api.GetCart(ctx, id.Shopper())
	if err != nil {
		return s.fail(ctx, "cart.load", err)
	}
	return s.install(remote), nil
}

func (s *service) ReplaceLines(lines []Line) {
	s.dispatch(Action{Kind: ActionReplace, Lines: lines})
}

// ClearCart empties local state only; the backend clears its copy when an order is placed.
func (s *service) ClearCart() {
	s.dispatch(Action{Kind: ActionClear})
}

func (s *service) Lines() []Line {
	return s.Snapshot().Lines
}

func (s *service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Lines: cloneLines(s.state.Lines)}
}

func (s *service) install(remote *backend.Cart) []Line {
	s.dispatch(Action{Kind: ActionReplace, Lines: LinesFromBackend(remote)})
	return s.Lines()
}

func (s *service) dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
}

func (s *service) fail(ctx context.Context, op string, err error) ([]Line, error) {
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"op": op, "error": err.Error()}), "cart operation failed")
	notifications.Failure(ctx, s.notifier, err)
	return s.Lines(), err
}

func validateKey(key LineKey) error {
	if strings.TrimSpace(key.ProductID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return nil
}
