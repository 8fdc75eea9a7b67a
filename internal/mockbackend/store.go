package mockbackend

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/security"
)

// Shopper is who a request acts for. UserID wins over GuestID.
type Shopper struct {
	UserID  string
	GuestID string
}

func (s Shopper) key() string {
	if s.UserID != "" {
		return "user:" + s.UserID
	}
	if s.GuestID != "" {
		return "guest:" + s.GuestID
	}
	return ""
}

// DiscountRule is a redeemable code. Percent 0 means the response omits the rate.
type DiscountRule struct {
	Code    string
	Percent int
}

type account struct {
	user         backend.User
	passwordHash string
	verified     bool
	otp          string
}

// Store is the in-memory state behind the mock backend.
type Store struct {
	mu         sync.Mutex
	password   config.PasswordConfig
	now        func() time.Time
	products   []backend.Product
	categories []backend.Category
	carts      map[string]cart.State
	orders     []backend.Order
	owners     map[string]Shopper
	discounts  map[string]DiscountRule
	redeemed   map[string]struct{}
	accounts   map[string]*account
}

func NewStore(password config.PasswordConfig) *Store {
	return &Store{
		password:  password,
		now:       time.Now,
		carts:     map[string]cart.State{},
		owners:    map[string]Shopper{},
		discounts: map[string]DiscountRule{},
		redeemed:  map[string]struct{}{},
		accounts:  map[string]*account{},
	}
}

func (s *Store) AddCategory(c backend.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

func (s *Store) AddProduct(p backend.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

func (s *Store) AddDiscount(rule DiscountRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts[strings.ToUpper(rule.Code)] = rule
}

// AddUser creates a verified account.
func (s *Store) AddUser(user backend.User, password string) error {
	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.accounts[normalizeEmail(user.Email)] = &account{user: user, passwordHash: hash, verified: true}
	return nil
}

func (s *Store) Products() []backend.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Product(id string) (backend.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.findProduct(id)
	if !ok {
		return backend.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return *p, nil
}

// ProductsByCategory lists products whose category or subcategory is id.
func (s *Store) ProductsByCategory(id string) []backend.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []backend.Product
	for _, p := range s.products {
		if p.Category == id || p.Subcategory == id {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Categories() []backend.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) Cart(shopper Shopper) (backend.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, err := requireKey(shopper)
	if err != nil {
		return backend.Cart{}, err
	}
	return s.render(s.carts[key]), nil
}

// AddToCart adds one unit. Going past known stock is refused.
func (s *Store) AddToCart(shopper Shopper, ref backend.CartLineRef) (backend.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, err := requireKey(shopper)
	if err != nil {
		return backend.Cart{}, err
	}
	p, ok := s.findProduct(ref.ProductID)
	if !ok {
		return backend.Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}

	line := cart.Line{LineKey: cart.LineKey{ProductID: ref.ProductID, SelectedImage: ref.SelectedImage, SelectedSize: ref.SelectedSize}}
	next := cart.Reduce(s.carts[key], cart.Action{Kind: cart.ActionAddLocal, Line: line})
	if qty := quantityOf(next, p.ID); qty > p.Stock {
		return backend.Cart{}, pkgerrors.New(pkgerrors.CodeBusinessRule, fmt.Sprintf("Only %d left in stock", p.Stock))
	}
	s.carts[key] = next
	return s.render(next), nil
}

func (s *Store) RemoveFromCart(shopper Shopper, ref backend.CartLineRef) (backend.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, err := requireKey(shopper)
	if err != nil {
		return backend.Cart{}, err
	}
	lineKey := cart.LineKey{ProductID: ref.ProductID, SelectedImage: ref.SelectedImage, SelectedSize: ref.SelectedSize}
	current := s.carts[key]
	found := false
	for _, line := range current.Lines {
		if line.LineKey == lineKey {
			found = true
			break
		}
	}
	if !found {
		return backend.Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in cart")
	}
	next := cart.Reduce(current, cart.Action{Kind: cart.ActionRemoveLocal, Line: cart.Line{LineKey: lineKey}})
	s.carts[key] = next
	return s.render(next), nil
}

func (s *Store) ValidateDiscount(email, code string) backend.DiscountResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.discounts[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return backend.DiscountResponse{Valid: false, Message: "Invalid discount code"}
	}
	if _, used := s.redeemed[redemptionKey(email, rule.Code)]; used {
		return backend.DiscountResponse{Valid: false, Message: "Discount code already used"}
	}
	resp := backend.DiscountResponse{Valid: true, Message: "Discount code applied"}
	if rule.Percent > 0 {
		percent := rule.Percent
		resp.DiscountPercent = &percent
	}
	return resp
}

// CreateOrder checks stock, prices the order from catalog data, decrements stock and
// empties the shopper's cart.
func (s *Store) CreateOrder(shopper Shopper, req backend.OrderRequest) (backend.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, err := requireKey(shopper)
	if err != nil {
		return backend.Order{}, err
	}
	if len(req.Items) == 0 {
		return backend.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Order has no items")
	}
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil || !method.Enabled() {
		return backend.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Payment method not supported")
	}

	wanted := map[string]int{}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return backend.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Item quantity must be positive")
		}
		wanted[item.ProductID] += item.Quantity
	}

	subtotal := decimal.Zero
	items := make([]backend.OrderLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		p, ok := s.findProduct(item.ProductID)
		if !ok {
			return backend.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		if wanted[p.ID] > p.Stock {
			return backend.Order{}, pkgerrors.New(pkgerrors.CodeBusinessRule, fmt.Sprintf("Insufficient stock for %s", p.Name))
		}
		price := p.EffectivePrice()
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, backend.OrderLineItem{
			ProductID:     p.ID,
			Name:          p.Name,
			Quantity:      item.Quantity,
			Price:         price.InexactFloat64(),
			SelectedSize:  item.SelectedSize,
			SelectedImage: item.SelectedImage,
		})
	}

	total := subtotal
	code := strings.ToUpper(strings.TrimSpace(req.DiscountCode))
	if code != "" {
		rule, ok := s.discounts[code]
		if !ok {
			return backend.Order{}, pkgerrors.New(pkgerrors.CodeBusinessRule, "Invalid discount code")
		}
		if _, used := s.redeemed[redemptionKey(req.Email, rule.Code)]; used {
			return backend.Order{}, pkgerrors.New(pkgerrors.CodeBusinessRule, "Discount code already used")
		}
		percent := rule.Percent
		if percent == 0 {
			percent = 10
		}
		off := decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))
		total = subtotal.Mul(decimal.NewFromInt(1).Sub(off)).Round(2)
		s.redeemed[redemptionKey(req.Email, rule.Code)] = struct{}{}
	}

	for id, qty := range wanted {
		p, _ := s.findProduct(id)
		p.Stock -= qty
	}

	created := s.now().UTC()
	order := backend.Order{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   string(method),
		DiscountCode:    code,
		Status:          string(enums.OrderStatusPending),
		CreatedAt:       &created,
	}
	s.orders = append(s.orders, order)
	s.owners[order.ID] = shopper
	delete(s.carts, key)
	return order, nil
}

// OrdersFor lists a user's orders, newest first.
func (s *Store) OrdersFor(userID string) []backend.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []backend.Order
	for _, o := range s.orders {
		if s.owners[o.ID].UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(*out[j].CreatedAt)
	})
	return out
}

// Order returns an order visible to shopper.
func (s *Store) Order(shopper Shopper, id string) (backend.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID != id {
			continue
		}
		owner := s.owners[o.ID]
		if (owner.UserID != "" && owner.UserID == shopper.UserID) || (owner.GuestID != "" && owner.GuestID == shopper.GuestID) {
			return o, nil
		}
		break
	}
	return backend.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
}

// Register stores an unverified account and returns the one-time code that confirms it.
func (s *Store) Register(req backend.RegisterRequest) (string, error) {
	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Password is required")
	}
	otp, err := security.GenerateOTP(6)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := normalizeEmail(req.Email)
	if existing, ok := s.accounts[email]; ok && existing.verified {
		return "", pkgerrors.New(pkgerrors.CodeBusinessRule, "User already exists")
	}
	s.accounts[email] = &account{
		user:         backend.User{ID: uuid.NewString(), Name: req.Name, Email: email, Phone: req.Phone},
		passwordHash: hash,
		otp:          otp,
	}
	return otp, nil
}

func (s *Store) VerifyOTP(email, otp string) (backend.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[normalizeEmail(email)]
	if !ok || acct.verified || acct.otp == "" || acct.otp != strings.TrimSpace(otp) {
		return backend.User{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid or expired OTP")
	}
	acct.verified = true
	acct.otp = ""
	return acct.user, nil
}

func (s *Store) Login(email, password string) (backend.User, error) {
	s.mu.Lock()
	var snapshot account
	acct, ok := s.accounts[normalizeEmail(email)]
	if ok {
		snapshot = *acct
	}
	s.mu.Unlock()

	if !ok || !snapshot.verified {
		return backend.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}
	match, err := security.VerifyPassword(password, snapshot.passwordHash)
	if err != nil || !match {
		return backend.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}
	return snapshot.user, nil
}

func (s *Store) findProduct(id string) (*backend.Product, bool) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], true
		}
	}
	return nil, false
}

func (s *Store) render(state cart.State) backend.Cart {
	out := backend.Cart{Items: make([]backend.CartItem, 0, len(state.Lines))}
	for _, line := range state.Lines {
		p, ok := s.findProduct(line.ProductID)
		if !ok {
			continue
		}
		out.Items = append(out.Items, backend.CartItem{
			Product:       *p,
			SelectedImage: line.SelectedImage,
			SelectedSize:  line.SelectedSize,
			Quantity:      line.Quantity,
		})
	}
	return out
}

func quantityOf(state cart.State, productID string) int {
	total := 0
	for _, line := range state.Lines {
		if line.ProductID == productID {
			total += line.Quantity
		}
	}
	return total
}

func requireKey(shopper Shopper) (string, error) {
	key := shopper.key()
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "Guest id or token required")
	}
	return key, nil
}

func redemptionKey(email, code string) string {
	return normalizeEmail(email) + "|" + strings.ToUpper(code)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
