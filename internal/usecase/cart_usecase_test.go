package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

func newCartFixture(t *testing.T) (*CartUsecase, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock, *CouponRepoMock) {
	t.Helper()
	cartRepo := &CartRepoMock{}
	cartItemRepo := &CartItemRepoMock{}
	productRepo := &ProductRepoMock{}
	couponRepo := &CouponRepoMock{}
	uc := NewCartUsecase(cartRepo, cartItemRepo, productRepo, couponRepo, &fixedClock{time.Now()})
	return uc, cartRepo, cartItemRepo, productRepo, couponRepo
}

func TestGetCart_TotalsWithCoupon(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo, couponRepo := newCartFixture(t)

	couponID := int64(7)
	now := time.Now()
	cart := model.Cart{ID: 5, UserID: 1, CouponID: &couponID}

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(cart, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 2},
		{ID: 2, CartID: 5, ProductID: 11, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Title: "Keyboard", Price: dec("199.99"), IsActive: true}, nil)
	productRepo.On("FindByID", mock.Anything, int64(11)).Return(model.Product{ID: 11, Title: "Mouse", Price: dec("149.99"), IsActive: true}, nil)
	couponRepo.On("FindByID", mock.Anything, couponID).Return(model.Coupon{
		ID:                 couponID,
		Code:               "SAVE10",
		DiscountPercentage: dec("10"),
		IsActive:           true,
		ValidFrom:          now.Add(-time.Hour),
		ValidTill:          now.Add(time.Hour),
	}, nil)

	out, err := uc.GetCart(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.True(t, dec("549.97").Equal(out.Subtotal), "subtotal %s", out.Subtotal)
	assert.True(t, dec("55.00").Equal(out.Discount), "discount %s", out.Discount)
	assert.True(t, dec("494.97").Equal(out.Total), "total %s", out.Total)
}

func TestGetCart_DeadLinesSkipped(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo, _ := newCartFixture(t)

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 1},
		{ID: 2, CartID: 5, ProductID: 404, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Title: "Keyboard", Price: dec("100"), IsActive: true}, nil)
	productRepo.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.GetCart(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.True(t, dec("100").Equal(out.Subtotal))
}

func TestAddToCart_VariantAdjustsUnitPrice(t *testing.T) {
	uc, cartRepo, cartItemRepo, productRepo, _ := newCartFixture(t)

	variantID := int64(20)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Title: "Keyboard", Price: dec("100"), IsActive: true}, nil)
	productRepo.On("FindVariantByID", mock.Anything, variantID).Return(model.ProductVariant{ID: 20, ProductID: 10, PriceAdjustment: dec("25")}, nil)
	cartItemRepo.On("Upsert", mock.Anything, int64(5), int64(10), &variantID, int64(1)).Return(nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 10, VariantID: &variantID, Quantity: 1},
	}, nil)

	out, err := uc.AddToCart(context.Background(), 1, AddCartInput{ProductID: 10, VariantID: &variantID, Quantity: 1})

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, dec("125").Equal(out.Items[0].UnitPrice))
}

func TestAddToCart_ForeignVariantRejected(t *testing.T) {
	uc, _, _, productRepo, _ := newCartFixture(t)

	variantID := int64(20)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, IsActive: true, Price: dec("100")}, nil)
	// Variant belongs to another product.
	productRepo.On("FindVariantByID", mock.Anything, variantID).Return(model.ProductVariant{ID: 20, ProductID: 99}, nil)

	_, err := uc.AddToCart(context.Background(), 1, AddCartInput{ProductID: 10, VariantID: &variantID, Quantity: 1})

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestAddToCart_InactiveProductRejected(t *testing.T) {
	uc, _, _, productRepo, _ := newCartFixture(t)

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, IsActive: false, Price: dec("100")}, nil)

	_, err := uc.AddToCart(context.Background(), 1, AddCartInput{ProductID: 10, Quantity: 1})

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestUpdateCartItem_ForeignItemReadsAsAbsent(t *testing.T) {
	uc, _, cartItemRepo, _, _ := newCartFixture(t)

	cartItemRepo.On("IsOwnedByUser", mock.Anything, int64(77), int64(1)).Return(false, nil)

	_, err := uc.UpdateCartItem(context.Background(), 1, 77, UpdateCartItemInput{Quantity: 2})

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	cartItemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}
