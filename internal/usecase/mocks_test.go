package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	"storefront/internal/gateway/razorpay"
	"storefront/internal/mail"
	repo "storefront/internal/repository"
)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByIDs(ctx context.Context, orderIDs []int64) ([]model.Order, error) {
	args := m.Called(ctx, orderIDs)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, sellerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListPendingByUserIDForUpdate(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) StampCheckout(ctx context.Context, orderIDs []int64, address string, mobile string, method model.PaymentMethod, transactionID *string) error {
	args := m.Called(ctx, orderIDs, address, mobile, method, transactionID)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) AttachTransactionID(ctx context.Context, orderIDs []int64, transactionID string) error {
	args := m.Called(ctx, orderIDs, transactionID)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByTransactionID(ctx context.Context, userID int64, transactionID string, method model.PaymentMethod) ([]model.Order, error) {
	args := m.Called(ctx, userID, transactionID, method)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderIDs []int64, paymentID string) error {
	args := m.Called(ctx, orderIDs, paymentID)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) SetCoupon(ctx context.Context, cartID int64, couponID *int64) error {
	args := m.Called(ctx, cartID, couponID)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) ListByCartIDForUpdate(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) Upsert(ctx context.Context, cartID int64, productID int64, variantID *int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, variantID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) FindByID(ctx context.Context, couponID int64) (model.Coupon, error) {
	args := m.Called(ctx, couponID)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) RedeemIfAvailable(ctx context.Context, couponID int64) (bool, error) {
	args := m.Called(ctx, couponID)
	return args.Bool(0), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListBySellerID(ctx context.Context, sellerID int64) ([]model.Product, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindVariantByID(ctx context.Context, variantID int64) (model.ProductVariant, error) {
	args := m.Called(ctx, variantID)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

type InvoiceRepoMock struct{ mock.Mock }

func (m *InvoiceRepoMock) Create(ctx context.Context, inv model.Invoice, orderIDs []int64) (model.Invoice, error) {
	args := m.Called(ctx, inv, orderIDs)
	created, _ := args.Get(0).(model.Invoice)
	return created, args.Error(1)
}

func (m *InvoiceRepoMock) FindByID(ctx context.Context, invoiceID int64) (model.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

func (m *InvoiceRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Invoice, error) {
	args := m.Called(ctx, userID)
	invoices, _ := args.Get(0).([]model.Invoice)
	return invoices, args.Error(1)
}

func (m *InvoiceRepoMock) IsOwnedByUser(ctx context.Context, invoiceID int64, userID int64) (bool, error) {
	args := m.Called(ctx, invoiceID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *InvoiceRepoMock) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// stubTxRepos bundles the repository mocks into one transactional view.
type stubTxRepos struct {
	orders    *OrderRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	coupons   *CouponRepoMock
	products  *ProductRepoMock
	inventory *InventoryRepoMock
	invoices  *InvoiceRepoMock
	auditLogs *AuditRepoMock
}

func newStubTxRepos() *stubTxRepos {
	return &stubTxRepos{
		orders:    &OrderRepoMock{},
		carts:     &CartRepoMock{},
		cartItems: &CartItemRepoMock{},
		coupons:   &CouponRepoMock{},
		products:  &ProductRepoMock{},
		inventory: &InventoryRepoMock{},
		invoices:  &InvoiceRepoMock{},
		auditLogs: &AuditRepoMock{},
	}
}

func (s *stubTxRepos) Orders() repo.OrderRepository        { return s.orders }
func (s *stubTxRepos) Carts() repo.CartRepository          { return s.carts }
func (s *stubTxRepos) CartItems() repo.CartItemRepository  { return s.cartItems }
func (s *stubTxRepos) Coupons() repo.CouponRepository      { return s.coupons }
func (s *stubTxRepos) Products() repo.ProductRepository    { return s.products }
func (s *stubTxRepos) Inventory() repo.InventoryRepository { return s.inventory }
func (s *stubTxRepos) Invoices() repo.InvoiceRepository    { return s.invoices }
func (s *stubTxRepos) AuditLogs() repo.AuditLogRepository  { return s.auditLogs }

// stubTxManager runs the callback directly against the stub repos; there
// is no real transaction in unit tests.
type stubTxManager struct {
	repos *stubTxRepos
}

func (m *stubTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *GatewayMock) KeyID() string {
	args := m.Called()
	return args.String(0)
}

func (m *GatewayMock) CreateOrderIntent(ctx context.Context, in razorpay.CreateIntentInput) (razorpay.OrderIntent, error) {
	args := m.Called(ctx, in)
	intent, _ := args.Get(0).(razorpay.OrderIntent)
	return intent, args.Error(1)
}

// stubRenderer returns the HTML as-is, skipping the PDF engines.
type stubRenderer struct{}

func (stubRenderer) Render(html string) ([]byte, string) {
	return []byte(html), "text/html"
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(toEmail, toName, subject, body string, attachments []mail.Attachment) error {
	args := m.Called(toEmail, toName, subject, body, attachments)
	return args.Error(0)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
