package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	secret := "s3cret"
	sig := sign(secret, "order_ABC", "pay_123")

	assert.True(t, VerifySignature("order_ABC", "pay_123", sig, secret))
}

func TestVerifySignature_TamperedOrderID(t *testing.T) {
	secret := "s3cret"
	sig := sign(secret, "order_ABC", "pay_123")

	assert.False(t, VerifySignature("order_DEF", "pay_123", sig, secret))
}

func TestVerifySignature_TamperedPaymentID(t *testing.T) {
	secret := "s3cret"
	sig := sign(secret, "order_ABC", "pay_123")

	assert.False(t, VerifySignature("order_ABC", "pay_999", sig, secret))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	sig := sign("other", "order_ABC", "pay_123")

	assert.False(t, VerifySignature("order_ABC", "pay_123", sig, "s3cret"))
}

func TestVerifySignature_MalformedHex(t *testing.T) {
	assert.False(t, VerifySignature("order_ABC", "pay_123", "not-hex", "s3cret"))
}

func TestToPaise(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"499.00", 49900},
		{"0.01", 1},
		{"549.97", 54997},
		{"1000", 100000},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, ToPaise(d), "amount %s", tc.in)
	}
}
