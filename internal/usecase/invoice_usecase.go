package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	"storefront/internal/pdfrender"
	repo "storefront/internal/repository"
)

// InvoiceRenderer always yields an artifact: PDF bytes when an engine
// succeeds, the raw markup as text/html otherwise.
type InvoiceRenderer interface {
	Render(html string) ([]byte, string)
}

// Deterministic invoice numbers. The consolidated form embeds the user id,
// so concurrent checkouts by different users at the same instant cannot
// collide; the legacy per-order form embeds the order id for the same
// reason.
func consolidatedInvoiceNumber(userID int64, now time.Time) string {
	return fmt.Sprintf("INV%d%d", userID, now.Unix())
}

func perOrderInvoiceNumber(orderID int64, orderedAt time.Time) string {
	return fmt.Sprintf("INV%d%d", orderID, orderedAt.Unix())
}

// buildInvoicesTx materializes invoices over an order set inside the
// caller's transaction. Consolidated mode issues one invoice for the whole
// set; legacy mode issues one per order. Tax is a placeholder and always
// zero. Never issues an invoice over zero orders.
func buildInvoicesTx(ctx context.Context, r repo.TxRepos, orders []model.Order, consolidate bool, now time.Time) ([]model.Invoice, error) {
	if len(orders) == 0 {
		return nil, errors.New("no orders to invoice")
	}

	if consolidate {
		subtotal := decimal.Zero
		orderIDs := make([]int64, 0, len(orders))
		for _, o := range orders {
			subtotal = subtotal.Add(o.TotalPrice())
			orderIDs = append(orderIDs, o.ID)
		}

		inv := model.Invoice{
			InvoiceNumber: consolidatedInvoiceNumber(orders[0].UserID, now),
			Subtotal:      subtotal,
			Tax:           decimal.Zero,
			Total:         subtotal,
		}
		created, err := r.Invoices().Create(ctx, inv, orderIDs)
		if err != nil {
			return nil, err
		}
		created.Orders = orders
		return []model.Invoice{created}, nil
	}

	invoices := make([]model.Invoice, 0, len(orders))
	for _, o := range orders {
		total := o.TotalPrice()
		inv := model.Invoice{
			InvoiceNumber: perOrderInvoiceNumber(o.ID, o.OrderedAt),
			Subtotal:      total,
			Tax:           decimal.Zero,
			Total:         total,
		}
		created, err := r.Invoices().Create(ctx, inv, []int64{o.ID})
		if err != nil {
			return nil, err
		}
		created.Orders = []model.Order{o}
		invoices = append(invoices, created)
	}
	return invoices, nil
}

type InvoiceUsecase struct {
	invoiceRepo repo.InvoiceRepository
	orderRepo   repo.OrderRepository
	renderer    InvoiceRenderer
}

func NewInvoiceUsecase(invoiceRepo repo.InvoiceRepository, orderRepo repo.OrderRepository, renderer InvoiceRenderer) *InvoiceUsecase {
	return &InvoiceUsecase{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		renderer:    renderer,
	}
}

type InvoiceOutput struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	IssuedAt      time.Time       `json:"issued_at"`
	Orders        []OrderOutput   `json:"orders,omitempty"`
}

func toInvoiceOutput(inv model.Invoice) InvoiceOutput {
	return InvoiceOutput{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		IssuedAt:      inv.IssuedAt,
		Orders:        toOrderOutputs(inv.Orders),
	}
}

func (u *InvoiceUsecase) ListMyInvoices(ctx context.Context, userID int64) ([]InvoiceOutput, error) {
	if userID <= 0 {
		return []InvoiceOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	invoices, err := u.invoiceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]InvoiceOutput, 0, len(invoices))
	for _, inv := range invoices {
		outs = append(outs, toInvoiceOutput(inv))
	}
	return outs, nil
}

func (u *InvoiceUsecase) GetMyInvoice(ctx context.Context, userID int64, invoiceID int64) (InvoiceOutput, error) {
	inv, err := u.ownedInvoice(ctx, userID, invoiceID)
	if err != nil {
		return InvoiceOutput{}, err
	}
	return toInvoiceOutput(inv), nil
}

type InvoiceArtifact struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Download renders the consolidated invoice document. Render failures
// degrade to the HTML artifact rather than failing the download.
func (u *InvoiceUsecase) Download(ctx context.Context, userID int64, invoiceID int64) (InvoiceArtifact, error) {
	inv, err := u.ownedInvoice(ctx, userID, invoiceID)
	if err != nil {
		return InvoiceArtifact{}, err
	}

	return renderInvoiceArtifact(u.renderer, inv)
}

// DownloadForOrder renders a single-order invoice document on the fly
// (legacy endpoint; nothing is persisted).
func (u *InvoiceUsecase) DownloadForOrder(ctx context.Context, userID int64, orderID int64) (InvoiceArtifact, error) {
	if userID <= 0 {
		return InvoiceArtifact{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return InvoiceArtifact{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return InvoiceArtifact{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return InvoiceArtifact{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	total := o.TotalPrice()
	inv := model.Invoice{
		InvoiceNumber: perOrderInvoiceNumber(o.ID, o.OrderedAt),
		Subtotal:      total,
		Tax:           decimal.Zero,
		Total:         total,
		IssuedAt:      o.OrderedAt,
		Orders:        []model.Order{o},
	}

	return renderInvoiceArtifact(u.renderer, inv)
}

func (u *InvoiceUsecase) ownedInvoice(ctx context.Context, userID int64, invoiceID int64) (model.Invoice, error) {
	if userID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if invoiceID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.invoiceRepo.IsOwnedByUser(ctx, invoiceID, userID)
	if err != nil {
		return model.Invoice{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		// Foreign invoices read as absent, never as forbidden.
		return model.Invoice{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	inv, err := u.invoiceRepo.FindByID(ctx, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Invoice{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Invoice{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return inv, nil
}

func renderInvoiceArtifact(renderer InvoiceRenderer, inv model.Invoice) (InvoiceArtifact, error) {
	html, err := pdfrender.InvoiceHTML(inv)
	if err != nil {
		return InvoiceArtifact{}, NewHTTPError(http.StatusInternalServerError, "render error")
	}

	data, contentType := renderer.Render(html)

	ext := ".pdf"
	if contentType == pdfrender.ContentTypeHTML {
		ext = ".html"
	}

	return InvoiceArtifact{
		Filename:    inv.InvoiceNumber + ext,
		Content:     data,
		ContentType: contentType,
	}, nil
}
