package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
}

func NewProductUsecase(productRepo repo.ProductRepository, tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, tx: tx}
}

type ProductListInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ProductListOutput struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, in ProductListInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}

	products, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Products: products, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ProductUsecase) GetDetail(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, nil
}

type UpsertProductInput struct {
	Title       string          `json:"title"`
	Brand       string          `json:"brand"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	StockCount  int64           `json:"stock_count"`
	IsActive    *bool           `json:"is_active"`
}

func validCategory(c string) bool {
	switch model.ProductCategory(c) {
	case model.CategoryTech, model.CategoryFashion, model.CategoryHome, model.CategoryBeauty:
		return true
	}
	return false
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, sellerID int64, in UpsertProductInput) (model.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if !validCategory(in.Category) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if in.Price.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	if in.StockCount < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock_count must not be negative")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		SellerID:    sellerID,
		Title:       title,
		Brand:       strings.TrimSpace(in.Brand),
		Description: in.Description,
		Category:    model.ProductCategory(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price:       in.Price,
		StockCount:  in.StockCount,
		IsActive:    active,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// ownedProduct hides foreign products behind 404 rather than 403.
func (u *ProductUsecase) ownedProduct(ctx context.Context, sellerID int64, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sellerID {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, sellerID int64, productID int64, in UpsertProductInput) (model.Product, error) {
	p, err := u.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return model.Product{}, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		p.Title = title
	}
	if in.Category != "" {
		if !validCategory(in.Category) {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		p.Category = model.ProductCategory(in.Category)
	}
	if in.Price.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	if !in.Price.IsZero() {
		p.Price = in.Price
	}
	if in.Brand != "" {
		p.Brand = strings.TrimSpace(in.Brand)
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.ImageURL != "" {
		p.ImageURL = strings.TrimSpace(in.ImageURL)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, sellerID int64, productID int64) error {
	if _, err := u.ownedProduct(ctx, sellerID, productID); err != nil {
		return err
	}
	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) ListMyProducts(ctx context.Context, sellerID int64) ([]model.Product, error) {
	products, err := u.productRepo.ListBySellerID(ctx, sellerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

// SetStock sets the absolute stock level and records the change in the
// audit trail, in one transaction.
func (u *ProductUsecase) SetStock(ctx context.Context, sellerID int64, productID int64, newStock int64) error {
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock_count must not be negative")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.SellerID != sellerID {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		_ = r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  sellerID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			Detail:       fmt.Sprintf("from=%d to=%d", p.StockCount, newStock),
		})
		return nil
	})
}
