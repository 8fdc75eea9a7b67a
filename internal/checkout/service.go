package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/discount"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	"github.com/angelmondragon/packfinderz-storefront/internal/orders"
	stockcheck "github.com/angelmondragon/packfinderz-storefront/pkg/checkout"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

// Quote is the price summary shown on the payment step.
type Quote struct {
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	DiscountRate  decimal.Decimal
	DiscountValid bool
	ItemCount     int
}

// Service runs the Shipping -> Payment -> Confirmation flow for one shopper.
type Service interface {
	Step() enums.CheckoutStep
	Draft() Draft
	Discount() (discount.Result, bool)
	SetShipping(ctx context.Context, details ShippingDetails) error
	SetDiscountCode(ctx context.Context, code string) error
	Next(ctx context.Context) error
	Back() error
	Quote() Quote
	Submit(ctx context.Context, method enums.PaymentMethod) (*orders.Placed, error)
	Confirmation() (*orders.Placed, bool)
	Start(ctx context.Context)
}

// Deps bundles the collaborators of the flow.
type Deps struct {
	Cart      cart.Service
	Identity  identity.Resolver
	Discounts discount.Service
	Orders    orders.Service
	Notifier  notifications.Notifier
	Logger    *logger.Logger
}

type service struct {
	cart      cart.Service
	identity  identity.Resolver
	discounts discount.Service
	orders    orders.Service
	notifier  notifications.Notifier
	logg      *logger.Logger

	mu      sync.Mutex
	step    enums.CheckoutStep
	draft   Draft
	verdict *discount.Result
	placed  *orders.Placed
}

// NewService builds a flow positioned on the shipping step with a draft prefilled from identity.
func NewService(ctx context.Context, deps Deps) (Service, error) {
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if deps.Identity == nil {
		return nil, fmt.Errorf("identity resolver required")
	}
	if deps.Discounts == nil {
		return nil, fmt.Errorf("discount service required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	svc := &service{
		cart:      deps.Cart,
		identity:  deps.Identity,
		discounts: deps.Discounts,
		orders:    deps.Orders,
		notifier:  deps.Notifier,
		logg:      deps.Logger,
	}
	svc.Start(ctx)
	return svc, nil
}

func (s *service) Step() enums.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *service) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Discount returns the last backend verdict for the current email and code.
func (s *service) Discount() (discount.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verdict == nil {
		return discount.Result{}, false
	}
	return *s.verdict, true
}

// Start begins a fresh checkout. The draft is prefilled from the signed-in shopper's token.
func (s *service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = enums.CheckoutStepShipping
	s.draft = s.prefilledDraft(ctx)
	s.verdict = nil
	s.placed = nil
}

func (s *service) SetShipping(ctx context.Context, details ShippingDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(enums.CheckoutStepShipping); err != nil {
		return err
	}

	details = details.normalized()
	emailChanged := details.Email != s.draft.Email
	s.draft.ShippingDetails = details
	if emailChanged {
		s.refreshDiscount(ctx)
	}
	return nil
}

func (s *service) SetDiscountCode(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(enums.CheckoutStepShipping); err != nil {
		return err
	}

	code = strings.TrimSpace(code)
	if code == s.draft.DiscountCode {
		return nil
	}
	s.draft.DiscountCode = code
	s.refreshDiscount(ctx)
	return nil
}

// Next advances from shipping to payment once every required field passes local validation.
// Entering payment validates the discount code again.
func (s *service) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case enums.CheckoutStepShipping:
		if err := ValidateShipping(s.draft.ShippingDetails); err != nil {
			notifications.Failure(ctx, s.notifier, err)
			return err
		}
		s.step = enums.CheckoutStepPayment
		s.refreshDiscount(ctx)
		return nil
	case enums.CheckoutStepPayment:
		return pkgerrors.New(pkgerrors.CodeValidation, "place the order to continue")
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout is already complete")
	}
}

// Back returns to the previous step and keeps everything entered so far.
func (s *service) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == enums.CheckoutStepConfirmation {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout is already complete")
	}
	prev, ok := s.step.Previous()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "already at the first step")
	}
	s.step = prev
	return nil
}

func (s *service) Quote() Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote(s.cart.Snapshot())
}

func (s *service) quote(state cart.State) Quote {
	rate := decimal.Zero
	if s.draft.DiscountValid && s.verdict != nil {
		rate = s.verdict.Rate
	}
	subtotal := orders.Subtotal(state.Lines)
	return Quote{
		Subtotal:      subtotal,
		Total:         orders.DiscountedTotal(subtotal, s.draft.DiscountValid, rate),
		DiscountRate:  rate,
		DiscountValid: s.draft.DiscountValid,
		ItemCount:     state.ItemCount(),
	}
}

// Submit places the order from the payment step. Any failure leaves the flow on payment
// so the shopper can resubmit by hand.
func (s *service) Submit(ctx context.Context, method enums.PaymentMethod) (*orders.Placed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed, err := s.submit(ctx, method)
	if err != nil {
		notifications.Failure(ctx, s.notifier, err)
		return nil, err
	}
	return placed, nil
}

func (s *service) submit(ctx context.Context, method enums.PaymentMethod) (*orders.Placed, error) {
	if err := s.requireStep(enums.CheckoutStepPayment); err != nil {
		return nil, err
	}
	if !method.IsValid() || !method.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "this payment method is not available yet").
			WithDetails(map[string]string{"paymentMethod": string(method)})
	}
	if err := ValidateShipping(s.draft.ShippingDetails); err != nil {
		return nil, err
	}

	state := s.cart.Snapshot()
	if len(state.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "your cart is empty")
	}
	if err := stockcheck.ValidateStock(stockInputs(state.Lines)); err != nil {
		return nil, err
	}

	id, err := s.identity.Current(ctx)
	if err != nil {
		return nil, err
	}

	rate := s.quote(state).DiscountRate
	payload := orders.BuildPayload(state.Lines, s.draft.Contact(), rate, id, method)

	placed, err := s.orders.Place(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	s.step = enums.CheckoutStepConfirmation
	s.placed = placed
	s.cart.ClearCart()
	if id.IsGuest() {
		if err := s.identity.ClearGuest(ctx); err != nil {
			s.logg.Error(ctx, "clear guest id after order", err)
		}
	}
	s.draft = s.prefilledDraft(ctx)
	s.verdict = nil

	message := placed.Message
	if message == "" {
		message = "Order placed successfully"
	}
	notifications.Success(ctx, s.notifier, message)
	return placed, nil
}

func (s *service) Confirmation() (*orders.Placed, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != enums.CheckoutStepConfirmation || s.placed == nil {
		return nil, false
	}
	placed := *s.placed
	return &placed, true
}

// refreshDiscount drops the current verdict and asks the backend again when both email and
// code are present. The outcome never blocks the flow.
func (s *service) refreshDiscount(ctx context.Context) {
	s.draft.DiscountValid = false
	s.verdict = nil

	email, code := s.draft.Email, s.draft.DiscountCode
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return
	}

	result, err := s.discounts.Validate(ctx, email, code)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "discount validation failed")
		notifications.Failure(ctx, s.notifier, err)
		return
	}
	s.verdict = &result
	s.draft.DiscountValid = result.Valid && result.Matches(email, code)
	if s.draft.DiscountValid {
		notifications.Success(ctx, s.notifier, result.Message)
		return
	}
	notifications.Failure(ctx, s.notifier, pkgerrors.New(pkgerrors.CodeBusinessRule, result.Message))
}

func (s *service) prefilledDraft(ctx context.Context) Draft {
	claims, ok := s.identity.Claims(ctx)
	if !ok {
		return Draft{}
	}
	return Draft{ShippingDetails: ShippingDetails{
		FullName:    claims.Name,
		Email:       claims.Email,
		PhoneNumber: claims.Phone,
	}}
}

func (s *service) requireStep(step enums.CheckoutStep) error {
	if s.step == step {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("not available on the %s step", s.step)).
		WithDetails(map[string]string{"step": s.step.String()})
}

func stockInputs(lines []cart.Line) []stockcheck.StockValidationInput {
	out := make([]stockcheck.StockValidationInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, stockcheck.StockValidationInput{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Stock:       line.Stock,
			Quantity:    line.Quantity,
		})
	}
	return out
}
