package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/packfinderz-storefront/internal/accounts"
	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/checkout"
	"github.com/angelmondragon/packfinderz-storefront/internal/notifications"
	"github.com/angelmondragon/packfinderz-storefront/internal/storefront"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

const commandList = "products|product|categories|category|cart|add|remove|login|register|verify-otp|logout|checkout|orders|order|whoami"

type cliOptions struct {
	cmd      string
	profile  string
	id       string
	image    string
	size     string
	name     string
	email    string
	phone    string
	password string
	otp      string
	address  string
	code     string
	payment  string
	metrics  bool
}

// localCommands only read or clear the identity store and never need the cart.
var localCommands = map[string]bool{"logout": true, "whoami": true}

// boot prepares app for cmd. Failures are already surfaced to the shopper; the caller
// logs them and still runs the command so a stale token can be cleared.
func boot(ctx context.Context, app *storefront.App, cmd string) error {
	if !localCommands[cmd] {
		return app.Boot(ctx)
	}
	if _, err := app.Identity.EnsureGuest(ctx); err != nil {
		notifications.Failure(ctx, app.Notifier, err)
		return err
	}
	return nil
}

func (o cliOptions) lineKey() cart.LineKey {
	return cart.LineKey{ProductID: o.id, SelectedImage: o.image, SelectedSize: o.size}
}

func run(ctx context.Context, app *storefront.App, opts cliOptions, out io.Writer) error {
	switch opts.cmd {
	case "products":
		list, err := app.Catalog.ListProducts(ctx)
		if err != nil {
			return err
		}
		printProducts(out, list)
	case "product":
		if err := requireFlag("id", opts.id); err != nil {
			return err
		}
		p, err := app.Catalog.GetProduct(ctx, opts.id)
		if err != nil {
			return err
		}
		printProducts(out, []backend.Product{*p})
		if len(p.Sizes) > 0 {
			fmt.Fprintf(out, "sizes: %s\n", strings.Join(p.Sizes, ", "))
		}
	case "categories":
		list, err := app.Catalog.ListCategories(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPARENT")
		for _, c := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Parent)
		}
		return tw.Flush()
	case "category":
		if err := requireFlag("id", opts.id); err != nil {
			return err
		}
		list, err := app.Catalog.ProductsInCategoryTree(ctx, opts.id)
		if err != nil {
			return err
		}
		printProducts(out, list)
	case "cart":
		printCart(out, app.Cart.Lines())
	case "add":
		if err := requireFlag("id", opts.id); err != nil {
			return err
		}
		lines, err := app.AddToCart(ctx, opts.lineKey())
		if err != nil {
			return err
		}
		printCart(out, lines)
	case "remove":
		if err := requireFlag("id", opts.id); err != nil {
			return err
		}
		lines, err := app.RemoveFromCart(ctx, opts.lineKey())
		if err != nil {
			return err
		}
		printCart(out, lines)
	case "login":
		user, err := app.Login(ctx, accounts.LoginInput{Email: opts.email, Password: opts.password})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "signed in as %s <%s>\n", user.Name, user.Email)
	case "register":
		msg, err := app.Accounts.Register(ctx, accounts.RegisterInput{
			Name:     opts.name,
			Email:    opts.email,
			Phone:    opts.phone,
			Password: opts.password,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
	case "verify-otp":
		user, err := app.VerifyOTP(ctx, accounts.VerifyOTPInput{Email: opts.email, OTP: opts.otp})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "signed in as %s <%s>\n", user.Name, user.Email)
	case "logout":
		return app.Logout(ctx)
	case "whoami":
		id, err := app.Identity.Current(ctx)
		if err != nil {
			return err
		}
		if claims, ok := app.Identity.Claims(ctx); ok {
			fmt.Fprintf(out, "%s %s <%s>\n", id.Kind, claims.Name, claims.Email)
			return nil
		}
		fmt.Fprintf(out, "%s %s\n", id.Kind, id.GuestID)
	case "checkout":
		return runCheckout(ctx, app, opts, out)
	case "orders":
		list, err := app.CurrentOrders(ctx)
		if err != nil {
			return err
		}
		printOrders(out, list)
	case "order":
		if err := requireFlag("id", opts.id); err != nil {
			return err
		}
		o, err := app.Order(ctx, opts.id)
		if err != nil {
			return err
		}
		printOrders(out, []backend.Order{*o})
		for _, item := range o.Items {
			fmt.Fprintf(out, "  %d x %s %s @ %.2f\n", item.Quantity, item.Name, item.SelectedSize, item.Price)
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown command %q, want one of %s", opts.cmd, commandList))
	}
	return nil
}

// runCheckout drives the whole flow in one pass: shipping, payment, confirmation.
func runCheckout(ctx context.Context, app *storefront.App, opts cliOptions, out io.Writer) error {
	co := app.Checkout
	draft := co.Draft()
	details := checkout.ShippingDetails{
		FullName:        firstNonEmpty(opts.name, draft.FullName),
		Email:           firstNonEmpty(opts.email, draft.Email),
		PhoneNumber:     firstNonEmpty(opts.phone, draft.PhoneNumber),
		ShippingAddress: firstNonEmpty(opts.address, draft.ShippingAddress),
	}
	if err := co.SetShipping(ctx, details); err != nil {
		return err
	}
	if err := co.SetDiscountCode(ctx, opts.code); err != nil {
		return err
	}
	if err := co.Next(ctx); err != nil {
		return err
	}

	quote := co.Quote()
	fmt.Fprintf(out, "items: %d\nsubtotal: %s\n", quote.ItemCount, quote.Subtotal.StringFixed(2))
	if quote.DiscountValid {
		fmt.Fprintf(out, "discount: %s%%\n", quote.DiscountRate.Shift(2).String())
	}
	fmt.Fprintf(out, "total: %s\n", quote.Total.StringFixed(2))

	method, err := enums.ParsePaymentMethod(opts.payment)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method")
	}
	placed, err := co.Submit(ctx, method)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "order %s placed, total %s\n", placed.Order.ID, placed.Order.TotalAmount.StringFixed(2))
	return nil
}

func printProducts(out io.Writer, list []backend.Product) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.EffectivePrice().StringFixed(2), p.Stock)
	}
	_ = tw.Flush()
}

func printCart(out io.Writer, lines []cart.Line) {
	if len(lines) == 0 {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSIZE\tQTY\tPRICE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", firstNonEmpty(l.Name, l.ProductID), l.SelectedSize, l.Quantity, l.UnitPrice.StringFixed(2))
	}
	_ = tw.Flush()
}

func printOrders(out io.Writer, list []backend.Order) {
	if len(list) == 0 {
		fmt.Fprintln(out, "no orders yet")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTOTAL\tITEMS")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", o.ID, o.Status, o.TotalAmount.StringFixed(2), len(o.Items))
	}
	_ = tw.Flush()
}

func requireFlag(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("-%s is required", name))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
