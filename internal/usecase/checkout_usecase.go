package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	"storefront/internal/gateway/razorpay"
	"storefront/internal/mail"
	"storefront/internal/pdfrender"
	repo "storefront/internal/repository"
)

// PaymentGateway is what checkout needs from the gateway adapter.
type PaymentGateway interface {
	Configured() bool
	KeyID() string
	CreateOrderIntent(ctx context.Context, in razorpay.CreateIntentInput) (razorpay.OrderIntent, error)
}

type CheckoutUsecase struct {
	tx          repo.TransactionManager
	userRepo    repo.UserRepository
	gateway     PaymentGateway
	renderer    InvoiceRenderer
	mailer      mail.Mailer
	consolidate bool
	clock       Clock
	logger      *slog.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	gateway PaymentGateway,
	renderer InvoiceRenderer,
	mailer mail.Mailer,
	consolidate bool,
	clock Clock,
	logger *slog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:          tx,
		userRepo:    userRepo,
		gateway:     gateway,
		renderer:    renderer,
		mailer:      mailer,
		consolidate: consolidate,
		clock:       clock,
		logger:      logger,
	}
}

type CheckoutInput struct {
	Address       string
	Mobile        string
	PaymentMethod model.PaymentMethod
	// TransactionID is meaningful only for upi_qr (the manual UTR).
	TransactionID string
}

// Parameters the frontend passes to the Razorpay widget.
type PaymentPageOutput struct {
	RazorpayOrderID string          `json:"razorpay_order_id"`
	RazorpayKeyID   string          `json:"razorpay_key_id"`
	Amount          decimal.Decimal `json:"amount"`
	AmountPaise     int64           `json:"amount_paise"`
	UserEmail       string          `json:"user_email"`
	UserName        string          `json:"user_name"`
}

type CheckoutOutput struct {
	Orders      []OrderOutput      `json:"orders"`
	Invoices    []InvoiceOutput    `json:"invoices,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Notice      string             `json:"notice,omitempty"`
	Payment     *PaymentPageOutput `json:"payment,omitempty"`
}

// One resolved priceable line, regardless of which source produced it.
type checkoutLine struct {
	productID     *int64
	name          string
	unitPrice     decimal.Decimal
	quantity      int64
	legacyOrderID int64 // non-zero when sourced from a pending order row
}

// Checkout converts the caller's current line items into durable orders.
// Everything that mutates state runs in one transaction; the gateway call
// for prepaid checkouts happens strictly after commit, and the gateway
// order id is attached in a short follow-up transaction, all-or-nothing.
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !in.PaymentMethod.Valid() {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	// Prepaid checkout with no gateway keys is a configuration error,
	// surfaced before any work is done.
	if in.PaymentMethod == model.PaymentMethodRazorpay && !u.gateway.Configured() {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "razorpay keys not configured")
	}

	// Missing contact info falls back to documented defaults; checkout
	// does not hard-fail on it.
	address := strings.TrimSpace(in.Address)
	if address == "" {
		address = model.DefaultShippingAddress
	}
	mobile := strings.TrimSpace(in.Mobile)
	if mobile == "" {
		mobile = model.DefaultMobile
	}

	var manualTxnID *string
	if in.PaymentMethod == model.PaymentMethodUPIQR {
		if utr := strings.TrimSpace(in.TransactionID); utr != "" {
			manualTxnID = &utr
		}
	}

	now := u.clock.Now()

	var (
		created []model.Order
		notice  string
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, fromCart, err := u.resolveLines(ctx, r, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		subtotal := decimal.Zero
		extended := make([]decimal.Decimal, len(lines))
		for i, ln := range lines {
			extended[i] = ln.unitPrice.Mul(decimal.NewFromInt(ln.quantity))
			subtotal = subtotal.Add(extended[i])
		}

		// Coupons ride on the cart; the legacy pending-order source
		// carries none.
		discount := decimal.Zero
		if fromCart != nil {
			d, coupon, couponNotice, err := evaluateCartCoupon(ctx, r.Carts(), r.Coupons(), *fromCart, subtotal, now)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			notice = couponNotice

			if coupon != nil && d.IsPositive() {
				ok, err := r.Coupons().RedeemIfAvailable(ctx, coupon.ID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if ok {
					discount = d
				} else {
					// Lost the race on the last remaining use.
					if err := r.Carts().SetCoupon(ctx, fromCart.ID, nil); err != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
					notice = "coupon usage limit reached"
				}
			}
		}

		shares := allocateDiscount(extended, discount)

		for i, ln := range lines {
			if ln.legacyOrderID != 0 {
				continue
			}

			if ln.productID != nil {
				ok, err := r.Inventory().DecreaseStockIfEnough(ctx, *ln.productID, ln.quantity)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if !ok {
					return NewHTTPError(http.StatusBadRequest, "out of stock: "+ln.name)
				}
			}

			// Checkout implicitly confirms: orders start packed.
			order := model.Order{
				UserID:          userID,
				ProductID:       ln.productID,
				ProductName:     ln.name,
				UnitPrice:       ln.unitPrice,
				Quantity:        ln.quantity,
				Discount:        shares[i],
				Status:          model.OrderStatusPacked,
				PaymentMethod:   in.PaymentMethod,
				PaymentStatus:   model.PaymentStatusPending,
				TransactionID:   manualTxnID,
				ShippingAddress: address,
				Mobile:          mobile,
				OrderedAt:       now,
			}

			id, err := r.Orders().Create(ctx, order)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.ID = id
			created = append(created, order)
		}

		// Legacy pending orders are re-stamped in place instead of copied.
		var legacyIDs []int64
		for i, ln := range lines {
			if ln.legacyOrderID == 0 {
				continue
			}
			legacyIDs = append(legacyIDs, ln.legacyOrderID)

			if ln.productID != nil {
				ok, err := r.Inventory().DecreaseStockIfEnough(ctx, *ln.productID, ln.quantity)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if !ok {
					return NewHTTPError(http.StatusBadRequest, "out of stock: "+ln.name)
				}
			}

			created = append(created, model.Order{
				ID:              ln.legacyOrderID,
				UserID:          userID,
				ProductID:       ln.productID,
				ProductName:     ln.name,
				UnitPrice:       ln.unitPrice,
				Quantity:        ln.quantity,
				Discount:        shares[i],
				Status:          model.OrderStatusPacked,
				PaymentMethod:   in.PaymentMethod,
				PaymentStatus:   model.PaymentStatusPending,
				TransactionID:   manualTxnID,
				ShippingAddress: address,
				Mobile:          mobile,
				OrderedAt:       now,
			})
		}
		if len(legacyIDs) > 0 {
			if err := r.Orders().StampCheckout(ctx, legacyIDs, address, mobile, in.PaymentMethod, manualTxnID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		// Consume the source so a retried checkout cannot materialize the
		// same snapshot twice.
		if fromCart != nil {
			if err := r.Carts().Clear(ctx, fromCart.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if fromCart.CouponID != nil {
				if err := r.Carts().SetCoupon(ctx, fromCart.ID, nil); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		_ = r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionCheckout,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   created[0].ID,
			Detail:       fmt.Sprintf("orders=%d method=%s", len(created), in.PaymentMethod),
		})

		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	total := decimal.Zero
	for _, o := range created {
		total = total.Add(o.TotalPrice())
	}

	out := CheckoutOutput{
		Orders:      toOrderOutputs(created),
		TotalAmount: total,
		Notice:      notice,
	}

	if in.PaymentMethod == model.PaymentMethodRazorpay {
		payment, err := u.createGatewayIntent(ctx, userID, created, total, now)
		if err != nil {
			return CheckoutOutput{}, err
		}
		out.Payment = payment
		// Invoices for prepaid checkouts are issued once payment is
		// verified, not before.
		return out, nil
	}

	invoices, err := u.issueInvoices(ctx, created, now)
	if err != nil {
		return CheckoutOutput{}, err
	}
	out.Invoices = invoices

	u.dispatchInvoices(ctx, userID, invoices)

	return out, nil
}

// resolveLines is the cart aggregator: pending legacy orders win, the
// persistent cart is the fallback. Read-locks whichever source it uses.
func (u *CheckoutUsecase) resolveLines(ctx context.Context, r repo.TxRepos, userID int64) ([]checkoutLine, *model.Cart, error) {
	pending, err := r.Orders().ListPendingByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(pending) > 0 {
		lines := make([]checkoutLine, 0, len(pending))
		for _, o := range pending {
			lines = append(lines, checkoutLine{
				productID:     o.ProductID,
				name:          o.ProductName,
				unitPrice:     o.UnitPrice,
				quantity:      o.Quantity,
				legacyOrderID: o.ID,
			})
		}
		return lines, nil, nil
	}

	cart, err := r.Carts().FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := r.CartItems().ListByCartIDForUpdate(ctx, cart.ID)
	if err != nil {
		return nil, nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines := make([]checkoutLine, 0, len(items))
	for _, it := range items {
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			return nil, nil, NewHTTPError(http.StatusBadRequest, "product no longer available: "+p.Title)
		}

		unit := p.Price
		if it.VariantID != nil {
			v, err := r.Products().FindVariantByID(ctx, *it.VariantID)
			if err == nil {
				unit = unit.Add(v.PriceAdjustment)
			} else if !errors.Is(err, repo.ErrNotFound) {
				return nil, nil, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		productID := p.ID
		lines = append(lines, checkoutLine{
			productID: &productID,
			name:      p.Title,
			unitPrice: unit,
			quantity:  it.Quantity,
		})
	}

	return lines, &cart, nil
}

// createGatewayIntent runs after the materialization transaction committed.
// A gateway failure here leaves the orders packed/pending for retry.
func (u *CheckoutUsecase) createGatewayIntent(ctx context.Context, userID int64, orders []model.Order, total decimal.Decimal, now time.Time) (*PaymentPageOutput, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	callCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	intent, err := u.gateway.CreateOrderIntent(callCtx, razorpay.CreateIntentInput{
		Amount:  total,
		Receipt: fmt.Sprintf("order_%d_%d", userID, now.Unix()),
		Notes: map[string]interface{}{
			"user_id": userID,
			"orders":  orderIDs,
		},
	})
	if errors.Is(err, razorpay.ErrNotConfigured) {
		return nil, NewHTTPError(http.StatusInternalServerError, "razorpay keys not configured")
	}
	if err != nil {
		u.logger.Error("gateway intent creation failed", "user_id", userID, "err", err)
		return nil, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable, please retry")
	}

	// Attach in one short transaction so the set is never left partially
	// stamped with the gateway order id.
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Orders().AttachTransactionID(ctx, orderIDs, intent.GatewayOrderID)
	})
	if err != nil {
		u.logger.Error("attaching gateway order id failed", "user_id", userID, "gateway_order_id", intent.GatewayOrderID, "err", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &PaymentPageOutput{
		RazorpayOrderID: intent.GatewayOrderID,
		RazorpayKeyID:   u.gateway.KeyID(),
		Amount:          total,
		AmountPaise:     intent.AmountPaise,
		UserEmail:       user.Email,
		UserName:        user.Name,
	}, nil
}

func (u *CheckoutUsecase) issueInvoices(ctx context.Context, orders []model.Order, now time.Time) ([]InvoiceOutput, error) {
	var invoices []model.Invoice

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		invoices, err = buildInvoicesTx(ctx, r, orders, u.consolidate, now)
		return err
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "invoice error")
	}

	outs := make([]InvoiceOutput, 0, len(invoices))
	for _, inv := range invoices {
		outs = append(outs, toInvoiceOutput(inv))
	}
	return outs, nil
}

// dispatchInvoices renders and emails the artifacts. Strictly best-effort:
// a failure is logged, never surfaced to checkout.
func (u *CheckoutUsecase) dispatchInvoices(ctx context.Context, userID int64, invoices []InvoiceOutput) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}

	attachments := make([]mail.Attachment, 0, len(invoices))
	for _, out := range invoices {
		inv := model.Invoice{
			InvoiceNumber: out.InvoiceNumber,
			Subtotal:      out.Subtotal,
			Tax:           out.Tax,
			Total:         out.Total,
			IssuedAt:      out.IssuedAt,
		}
		for _, o := range out.Orders {
			inv.Orders = append(inv.Orders, model.Order{
				ProductName: o.ProductName,
				UnitPrice:   o.UnitPrice,
				Quantity:    o.Quantity,
				Discount:    o.Discount,
			})
		}

		html, err := pdfrender.InvoiceHTML(inv)
		if err != nil {
			u.logger.Warn("invoice markup failed", "invoice", out.InvoiceNumber, "err", err)
			continue
		}

		data, contentType := u.renderer.Render(html)
		ext := ".pdf"
		if contentType == pdfrender.ContentTypeHTML {
			ext = ".html"
		}
		attachments = append(attachments, mail.Attachment{
			Filename:    out.InvoiceNumber + ext,
			Content:     data,
			ContentType: contentType,
		})
	}

	if len(attachments) == 0 {
		return
	}

	err = u.mailer.Send(
		user.Email,
		user.Name,
		"Your invoice",
		"Thank you for your order. Attached are your invoice(s).",
		attachments,
	)
	if err != nil {
		u.logger.Warn("invoice mail dispatch failed", "user_id", userID, "err", err)
	}
}

// allocateDiscount spreads a discount proportionally over the extended
// line prices, rounding each share to two fraction digits and pushing the
// remainder onto the last line so the shares sum exactly to the discount.
func allocateDiscount(extended []decimal.Decimal, discount decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(extended))
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if !discount.IsPositive() || len(extended) == 0 {
		return shares
	}

	subtotal := decimal.Zero
	for _, e := range extended {
		subtotal = subtotal.Add(e)
	}
	if !subtotal.IsPositive() {
		return shares
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	allocated := decimal.Zero
	for i := 0; i < len(extended)-1; i++ {
		share := discount.Mul(extended[i]).Div(subtotal).Round(2)
		if share.GreaterThan(extended[i]) {
			share = extended[i]
		}
		shares[i] = share
		allocated = allocated.Add(share)
	}

	last := discount.Sub(allocated)
	if last.GreaterThan(extended[len(extended)-1]) {
		last = extended[len(extended)-1]
	}
	if last.IsNegative() {
		last = decimal.Zero
	}
	shares[len(extended)-1] = last

	return shares
}
