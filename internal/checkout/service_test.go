package checkout

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/discount"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	"github.com/angelmondragon/packfinderz-storefront/internal/orders"
	"github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

type fakeCart struct {
	mu    sync.Mutex
	state cart.State
}

func (f *fakeCart) AddLine(context.Context, cart.LineKey, identity.Identity) ([]cart.Line, error) {
	return f.Lines(), nil
}

func (f *fakeCart) RemoveLine(context.Context, cart.LineKey, identity.Identity) ([]cart.Line, error) {
	return f.Lines(), nil
}

func (f *fakeCart) LoadCart(context.Context, identity.Identity) ([]cart.Line, error) {
	return f.Lines(), nil
}

func (f *fakeCart) ReplaceLines(lines []cart.Line) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = cart.Reduce(f.state, cart.Action{Kind: cart.ActionReplace, Lines: lines})
}

func (f *fakeCart) ClearCart() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = cart.Reduce(f.state, cart.Action{Kind: cart.ActionClear})
}

func (f *fakeCart) Lines() []cart.Line {
	return f.Snapshot().Lines
}

func (f *fakeCart) Snapshot() cart.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cart.Reduce(f.state, cart.Action{Kind: cart.ActionReplace, Lines: f.state.Lines})
}

type fakeDiscounts struct {
	calls      []string
	validateFn func(email, code string) (discount.Result, error)
}

func (f *fakeDiscounts) Validate(_ context.Context, email, code string) (discount.Result, error) {
	f.calls = append(f.calls, email+"|"+code)
	if f.validateFn != nil {
		return f.validateFn(email, code)
	}
	return discount.Result{Email: email, Code: code, Valid: true, Message: "10% discount applied", Rate: decimal.RequireFromString("0.1")}, nil
}

type fakeOrders struct {
	placed  []backend.OrderRequest
	placeFn func(payload backend.OrderRequest) (*orders.Placed, error)
}

func (f *fakeOrders) Place(_ context.Context, _ identity.Identity, payload backend.OrderRequest) (*orders.Placed, error) {
	f.placed = append(f.placed, payload)
	if f.placeFn != nil {
		return f.placeFn(payload)
	}
	return &orders.Placed{Order: backend.Order{ID: "order-1", Status: "pending"}, Message: "Order placed successfully"}, nil
}

func (f *fakeOrders) MyOrders(context.Context, identity.Identity) ([]backend.Order, error) {
	return nil, nil
}

func (f *fakeOrders) GetOrder(context.Context, identity.Identity, string) (*backend.Order, error) {
	return nil, nil
}

type harness struct {
	svc       Service
	cart      *fakeCart
	resolver  identity.Resolver
	discounts *fakeDiscounts
	orders    *fakeOrders
	notes     *notifications.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	resolver, err := identity.NewResolver(identity.NewMemoryStore())
	require.NoError(t, err)
	_, err = resolver.EnsureGuest(ctx)
	require.NoError(t, err)

	h := &harness{
		cart:      &fakeCart{},
		resolver:  resolver,
		discounts: &fakeDiscounts{},
		orders:    &fakeOrders{},
		notes:     notifications.NewRecorder(),
	}
	h.cart.ReplaceLines([]cart.Line{
		{LineKey: cart.LineKey{ProductID: "p1", SelectedImage: "a.png"}, Name: "Tee", Quantity: 2, UnitPrice: decimal.NewFromInt(1999), Stock: 5},
		{LineKey: cart.LineKey{ProductID: "p2", SelectedImage: "b.png"}, Name: "Cap", Quantity: 1, UnitPrice: decimal.NewFromInt(2200), Stock: 3},
	})
	h.svc, err = NewService(ctx, Deps{
		Cart:      h.cart,
		Identity:  resolver,
		Discounts: h.discounts,
		Orders:    h.orders,
		Notifier:  h.notes,
	})
	require.NoError(t, err)
	return h
}

func (h *harness) toPayment(t *testing.T) {
	t.Helper()
	require.NoError(t, h.svc.SetShipping(context.Background(), completeDetails()))
	require.NoError(t, h.svc.Next(context.Background()))
	require.Equal(t, enums.CheckoutStepPayment, h.svc.Step())
}

func TestCannotReachPaymentWithMissingFields(t *testing.T) {
	h := newHarness(t)
	details := completeDetails()
	details.ShippingAddress = ""
	require.NoError(t, h.svc.SetShipping(context.Background(), details))

	err := h.svc.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Equal(t, enums.CheckoutStepShipping, h.svc.Step())

	last, ok := h.notes.Last()
	require.True(t, ok)
	assert.Equal(t, enums.NotificationLevelError, last.Level)
}

func TestBackKeepsEnteredData(t *testing.T) {
	h := newHarness(t)
	h.toPayment(t)

	require.NoError(t, h.svc.Back())
	assert.Equal(t, enums.CheckoutStepShipping, h.svc.Step())
	assert.Equal(t, "Ayesha Khan", h.svc.Draft().FullName)

	require.Error(t, h.svc.Back())
}

func TestDiscountValidatedOnChangeAndOnPaymentEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.SetDiscountCode(ctx, "WELCOME10"))
	assert.Empty(t, h.discounts.calls)
	assert.False(t, h.svc.Draft().DiscountValid)

	require.NoError(t, h.svc.SetShipping(ctx, completeDetails()))
	require.Len(t, h.discounts.calls, 1)
	assert.True(t, h.svc.Draft().DiscountValid)

	require.NoError(t, h.svc.SetShipping(ctx, completeDetails()))
	require.Len(t, h.discounts.calls, 1)

	require.NoError(t, h.svc.Next(ctx))
	assert.Len(t, h.discounts.calls, 2)

	quote := h.svc.Quote()
	assert.Equal(t, "6198", quote.Subtotal.String())
	assert.Equal(t, "5578.2", quote.Total.String())
	assert.Equal(t, 3, quote.ItemCount)
}

func TestChangingCodeResetsDiscountUntilBackendAnswers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.discounts.validateFn = func(email, code string) (discount.Result, error) {
		if code == "BAD" {
			return discount.Result{Email: email, Code: code, Valid: false, Message: "Invalid discount code"}, nil
		}
		return discount.Result{Email: email, Code: code, Valid: true, Rate: decimal.RequireFromString("0.1")}, nil
	}

	require.NoError(t, h.svc.SetShipping(ctx, completeDetails()))
	require.NoError(t, h.svc.SetDiscountCode(ctx, "GOOD"))
	assert.True(t, h.svc.Draft().DiscountValid)

	require.NoError(t, h.svc.SetDiscountCode(ctx, "BAD"))
	assert.False(t, h.svc.Draft().DiscountValid)
	last, _ := h.notes.Last()
	assert.Equal(t, "Invalid discount code", last.Message)

	require.NoError(t, h.svc.Next(ctx))
	assert.Equal(t, "6198", h.svc.Quote().Total.String())
}

func TestDiscountFailureDoesNotBlock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.discounts.validateFn = func(string, string) (discount.Result, error) {
		return discount.Result{}, pkgerrors.New(pkgerrors.CodeNetwork, "could not reach the server")
	}

	require.NoError(t, h.svc.SetDiscountCode(ctx, "WELCOME10"))
	require.NoError(t, h.svc.SetShipping(ctx, completeDetails()))
	require.NoError(t, h.svc.Next(ctx))
	assert.Equal(t, enums.CheckoutStepPayment, h.svc.Step())
	assert.False(t, h.svc.Draft().DiscountValid)
}

func TestDisabledPaymentMethodIsRejected(t *testing.T) {
	h := newHarness(t)
	h.toPayment(t)

	_, err := h.svc.Submit(context.Background(), enums.PaymentMethodCard)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, h.orders.placed)
}

func TestStockShortfallBlocksSubmission(t *testing.T) {
	h := newHarness(t)
	h.cart.ReplaceLines([]cart.Line{
		{LineKey: cart.LineKey{ProductID: "p1", SelectedImage: "a.png"}, Name: "Tee", Quantity: 2, UnitPrice: decimal.NewFromInt(1999), Stock: 1},
	})
	h.toPayment(t)

	_, err := h.svc.Submit(context.Background(), enums.PaymentMethodCashOnDelivery)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeBusinessRule, pkgerrors.As(err).Code())
	assert.Empty(t, h.orders.placed)
	assert.Equal(t, enums.CheckoutStepPayment, h.svc.Step())
}

func TestBackendFailureStaysOnPayment(t *testing.T) {
	h := newHarness(t)
	h.orders.placeFn = func(backend.OrderRequest) (*orders.Placed, error) {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "Product Cap is out of stock")
	}
	h.toPayment(t)

	_, err := h.svc.Submit(context.Background(), enums.PaymentMethodCashOnDelivery)
	require.Error(t, err)
	assert.Equal(t, enums.CheckoutStepPayment, h.svc.Step())
	assert.Len(t, h.cart.Lines(), 2)

	last, _ := h.notes.Last()
	assert.Equal(t, "Product Cap is out of stock", last.Message)

	h.orders.placeFn = nil
	_, err = h.svc.Submit(context.Background(), enums.PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	assert.Len(t, h.orders.placed, 2)
}

func TestSuccessfulSubmissionClearsCartAndGuest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before, err := h.resolver.Current(ctx)
	require.NoError(t, err)

	require.NoError(t, h.svc.SetDiscountCode(ctx, "WELCOME10"))
	h.toPayment(t)

	placed, err := h.svc.Submit(ctx, enums.PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	assert.Equal(t, "order-1", placed.Order.ID)

	require.Len(t, h.orders.placed, 1)
	sent := h.orders.placed[0]
	assert.Equal(t, before.GuestID, sent.GuestID)
	assert.Equal(t, 5578.2, sent.TotalAmount)
	assert.Equal(t, "WELCOME10", sent.DiscountCode)

	assert.Equal(t, enums.CheckoutStepConfirmation, h.svc.Step())
	assert.Empty(t, h.cart.Lines())
	assert.Equal(t, Draft{}, h.svc.Draft())

	after, err := h.resolver.Current(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.GuestID, after.GuestID)

	confirmation, ok := h.svc.Confirmation()
	require.True(t, ok)
	assert.Equal(t, "order-1", confirmation.Order.ID)

	require.Error(t, h.svc.Back())
	require.Error(t, h.svc.Next(ctx))
	_, err = h.svc.Submit(ctx, enums.PaymentMethodCashOnDelivery)
	require.Error(t, err)
	assert.Len(t, h.orders.placed, 1)
}

func TestSignedInShopperDraftIsPrefilled(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	token, err := auth.Mint("secret", "shop", time.Hour, time.Now(), auth.ShopperClaims{
		UserID: "u1",
		Name:   "Bilal Ahmed",
		Email:  "bilal@example.com",
		Phone:  "03001234567",
	})
	require.NoError(t, err)
	require.NoError(t, h.resolver.SetToken(ctx, token))

	h.svc.Start(ctx)
	draft := h.svc.Draft()
	assert.Equal(t, "Bilal Ahmed", draft.FullName)
	assert.Equal(t, "bilal@example.com", draft.Email)
	assert.Equal(t, "03001234567", draft.PhoneNumber)

	require.NoError(t, h.svc.SetShipping(ctx, ShippingDetails{
		FullName:        draft.FullName,
		Email:           draft.Email,
		PhoneNumber:     draft.PhoneNumber,
		ShippingAddress: "7 Canal View, Lahore",
	}))
	require.NoError(t, h.svc.Next(ctx))
	_, err = h.svc.Submit(ctx, enums.PaymentMethodCashOnDelivery)
	require.NoError(t, err)

	assert.Empty(t, h.orders.placed[0].GuestID)
	assert.Equal(t, "Bilal Ahmed", h.svc.Draft().FullName)
	id, err := h.resolver.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.IdentityKindAuthenticated, id.Kind)
}

func TestChangingEmailRevalidatesDiscount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.discounts.validateFn = func(email, code string) (discount.Result, error) {
		normalized := strings.ToLower(email)
		if normalized == "used@example.com" {
			return discount.Result{Email: normalized, Code: code, Valid: false, Message: "Discount code already used"}, nil
		}
		return discount.Result{Email: normalized, Code: code, Valid: true, Rate: decimal.RequireFromString("0.1")}, nil
	}

	require.NoError(t, h.svc.SetShipping(ctx, completeDetails()))
	require.NoError(t, h.svc.SetDiscountCode(ctx, "WELCOME10"))
	require.True(t, h.svc.Draft().DiscountValid)
	require.Len(t, h.discounts.calls, 1)

	details := completeDetails()
	details.Email = "used@example.com"
	require.NoError(t, h.svc.SetShipping(ctx, details))
	assert.False(t, h.svc.Draft().DiscountValid)
	assert.Equal(t, "used@example.com|WELCOME10", h.discounts.calls[len(h.discounts.calls)-1])

	details.Email = "Ayesha@Example.com"
	require.NoError(t, h.svc.SetShipping(ctx, details))
	assert.True(t, h.svc.Draft().DiscountValid)
	require.Len(t, h.discounts.calls, 3)

	details.Email = "ayesha@example.com"
	require.NoError(t, h.svc.SetShipping(ctx, details))
	assert.Len(t, h.discounts.calls, 4)
	assert.True(t, h.svc.Draft().DiscountValid)

	require.NoError(t, h.svc.Next(ctx))
	assert.Equal(t, "5578.2", h.svc.Quote().Total.String())
}
