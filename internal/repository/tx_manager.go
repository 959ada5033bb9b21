package repository

import "context"

// Repositories available inside one transaction.
type TxRepos interface {
	Orders() OrderRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Coupons() CouponRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Invoices() InvoiceRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides begin/commit/rollback from usecases. An error
// from fn rolls the whole transaction back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
