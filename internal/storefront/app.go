package storefront

import (
	"context"
	"fmt"

	"github.com/angelmondragon/packfinderz-storefront/internal/accounts"
	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/catalog"
	"github.com/angelmondragon/packfinderz-storefront/internal/checkout"
	"github.com/angelmondragon/packfinderz-storefront/internal/discount"
	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	"github.com/angelmondragon/packfinderz-storefront/internal/orders"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

// Options wires an App.
type Options struct {
	Client          *backend.Client
	Store           identity.Store
	Notifier        notifications.Notifier
	Logger          *logger.Logger
	DiscountPercent int
}

// App is the shopper's session state: identity, cart and checkout, plus the read services.
type App struct {
	Identity identity.Resolver
	Cart     cart.Service
	Checkout checkout.Service
	Catalog  catalog.Service
	Accounts accounts.Service
	Orders   orders.Service
	Notifier notifications.Notifier

	logg *logger.Logger
}

func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("identity store required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Notifier == nil {
		n, err := notifications.NewLogNotifier(opts.Logger)
		if err != nil {
			return nil, err
		}
		opts.Notifier = n
	}

	resolver, err := identity.NewResolver(opts.Store)
	if err != nil {
		return nil, err
	}
	cartSvc, err := cart.NewService(opts.Client, opts.Notifier, opts.Logger)
	if err != nil {
		return nil, err
	}
	discountSvc, err := discount.NewService(opts.Client, opts.DiscountPercent)
	if err != nil {
		return nil, err
	}
	orderSvc, err := orders.NewService(opts.Client, opts.Logger)
	if err != nil {
		return nil, err
	}
	catalogSvc, err := catalog.NewService(opts.Client)
	if err != nil {
		return nil, err
	}
	accountSvc, err := accounts.NewService(opts.Client, resolver)
	if err != nil {
		return nil, err
	}
	checkoutSvc, err := checkout.NewService(ctx, checkout.Deps{
		Cart:      cartSvc,
		Identity:  resolver,
		Discounts: discountSvc,
		Orders:    orderSvc,
		Notifier:  opts.Notifier,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Identity: resolver,
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Catalog:  catalogSvc,
		Accounts: accountSvc,
		Orders:   orderSvc,
		Notifier: opts.Notifier,
		logg:     opts.Logger,
	}, nil
}

// Boot makes sure a guest id exists and loads the cart for whoever the shopper is.
func (a *App) Boot(ctx context.Context) error {
	if _, err := a.Identity.EnsureGuest(ctx); err != nil {
		notifications.Failure(ctx, a.Notifier, err)
		return err
	}
	_, err := a.reloadCart(ctx)
	return err
}

func (a *App) AddToCart(ctx context.Context, key cart.LineKey) ([]cart.Line, error) {
	id, err := a.Identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return a.Cart.AddLine(ctx, key, id)
}

func (a *App) RemoveFromCart(ctx context.Context, key cart.LineKey) ([]cart.Line, error) {
	id, err := a.Identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return a.Cart.RemoveLine(ctx, key, id)
}

// Login signs in, then switches the cart and checkout over to the account.
func (a *App) Login(ctx context.Context, in accounts.LoginInput) (*backend.User, error) {
	user, err := a.Accounts.Login(ctx, in)
	if err != nil {
		notifications.Failure(ctx, a.Notifier, err)
		return nil, err
	}
	notifications.Success(ctx, a.Notifier, "Signed in as "+user.Name)
	return user, a.afterIdentityChange(ctx)
}

func (a *App) VerifyOTP(ctx context.Context, in accounts.VerifyOTPInput) (*backend.User, error) {
	user, err := a.Accounts.VerifyOTP(ctx, in)
	if err != nil {
		notifications.Failure(ctx, a.Notifier, err)
		return nil, err
	}
	notifications.Success(ctx, a.Notifier, "Account verified")
	return user, a.afterIdentityChange(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.Accounts.Logout(ctx); err != nil {
		return err
	}
	notifications.Info(ctx, a.Notifier, "Signed out")
	return a.afterIdentityChange(ctx)
}

// CurrentOrders lists the signed-in shopper's orders.
func (a *App) CurrentOrders(ctx context.Context) ([]backend.Order, error) {
	id, err := a.Identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	list, err := a.Orders.MyOrders(ctx, id)
	if err != nil {
		notifications.Failure(ctx, a.Notifier, err)
		return nil, err
	}
	return list, nil
}

func (a *App) Order(ctx context.Context, orderID string) (*backend.Order, error) {
	id, err := a.Identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	order, err := a.Orders.GetOrder(ctx, id, orderID)
	if err != nil {
		notifications.Failure(ctx, a.Notifier, err)
		return nil, err
	}
	return order, nil
}

func (a *App) afterIdentityChange(ctx context.Context) error {
	a.Cart.ClearCart()
	a.Checkout.Start(ctx)
	_, err := a.reloadCart(ctx)
	return err
}

func (a *App) reloadCart(ctx context.Context) ([]cart.Line, error) {
	id, err := a.Identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	ctx = a.logg.WithShopper(ctx, id.Kind.String(), id.GuestID)
	lines, err := a.Cart.LoadCart(ctx, id)
	if err != nil {
		return lines, err
	}
	a.logg.Debug(a.logg.WithField(ctx, "lines", len(lines)), "cart loaded")
	return lines, nil
}
