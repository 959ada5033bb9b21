package model

import "time"

type AuditAction string

const (
	AuditActionCheckout          AuditAction = "CHECKOUT"
	AuditActionPaymentVerified   AuditAction = "PAYMENT_VERIFIED"
	AuditActionSignatureMismatch AuditAction = "SIGNATURE_MISMATCH"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
)

type AuditResourceType string

const (
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceProduct AuditResourceType = "product"
	AuditResourcePayment AuditResourceType = "payment"
)

// Audit trail for money-adjacent actions: who did what to which resource.
// Signature mismatches are recorded here as well as logged, so a rejected
// callback is never silently dropped.
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	Detail       string            `gorm:"type:text" json:"detail"`
	CreatedAt    time.Time         `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
