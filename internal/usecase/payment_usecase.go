package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/gateway/razorpay"
	repo "storefront/internal/repository"
)

type PaymentUsecase struct {
	tx          repo.TransactionManager
	keySecret   string
	consolidate bool
	clock       Clock
	logger      *slog.Logger
}

func NewPaymentUsecase(tx repo.TransactionManager, keySecret string, consolidate bool, clock Clock, logger *slog.Logger) *PaymentUsecase {
	return &PaymentUsecase{
		tx:          tx,
		keySecret:   keySecret,
		consolidate: consolidate,
		clock:       clock,
		logger:      logger,
	}
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerifyPaymentOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Verify authenticates a Razorpay callback and settles every order stamped
// with the gateway order id. Replays of an already-settled callback succeed
// without touching state.
func (u *PaymentUsecase) Verify(ctx context.Context, userID int64, in VerifyPaymentInput) (VerifyPaymentOutput, error) {
	if userID <= 0 {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if u.keySecret == "" {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "razorpay keys not configured")
	}

	orderID := strings.TrimSpace(in.OrderID)
	paymentID := strings.TrimSpace(in.PaymentID)
	signature := strings.TrimSpace(in.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "missing verification fields")
	}

	if !razorpay.VerifySignature(orderID, paymentID, signature, u.keySecret) {
		u.logger.Warn("payment signature mismatch", "user_id", userID, "gateway_order_id", orderID)
		_ = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			return r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  userID,
				Action:       model.AuditActionSignatureMismatch,
				ResourceType: model.AuditResourcePayment,
				Detail:       fmt.Sprintf("gateway_order_id=%s", orderID),
			})
		})
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "signature verification failed")
	}

	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByTransactionID(ctx, userID, orderID, model.PaymentMethodRazorpay)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if len(orders) == 0 {
			// MarkPaid rewrites transaction_id to the payment id, so a
			// replayed callback finds nothing under the gateway order id.
			settled, err := r.Orders().ListByTransactionID(ctx, userID, paymentID, model.PaymentMethodRazorpay)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if len(settled) > 0 && allPaid(settled) {
				return nil
			}
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}

		if err := r.Orders().MarkPaid(ctx, ids, paymentID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		_ = r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionPaymentVerified,
			ResourceType: model.AuditResourcePayment,
			ResourceID:   ids[0],
			Detail:       fmt.Sprintf("gateway_order_id=%s payment_id=%s orders=%d", orderID, paymentID, len(ids)),
		})

		// Prepaid invoices are issued here, once. The existence check
		// keeps a replayed verification from minting a second invoice.
		exists, err := r.Invoices().ExistsForOrder(ctx, ids[0])
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !exists {
			if _, err := buildInvoicesTx(ctx, r, orders, u.consolidate, now); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "invoice error")
			}
		}

		return nil
	})
	if err != nil {
		return VerifyPaymentOutput{}, err
	}

	return VerifyPaymentOutput{Status: "success", Message: "payment verified"}, nil
}

func allPaid(orders []model.Order) bool {
	for _, o := range orders {
		if o.PaymentStatus != model.PaymentStatusPaid {
			return false
		}
	}
	return true
}
