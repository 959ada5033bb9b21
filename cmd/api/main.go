package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/gateway/razorpay"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/mail"
	"storefront/internal/pdfrender"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .env is optional; real deployments pass env vars directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	gormDB, err := db.Connect()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.RefreshToken{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Cart{},
		&model.CartItem{},
		&model.Coupon{},
		&model.Order{},
		&model.Invoice{},
		&model.RefundRequest{},
		&model.WishlistItem{},
		&model.AuditLog{},
	); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	refundRepo := infraRepo.NewRefundGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// Shared pieces
	idGen := &uuidGenerator{}
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}
	refreshTTL := 14 * 24 * time.Hour

	gateway := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
	renderer := pdfrender.NewPipeline(logger)
	mailer := mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.InvoiceFromEmail, cfg.InvoiceFromName, logger)

	// Usecases
	registerUC := auth.NewRegisterUserUsecase(userRepo, profileRepo, cartRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	productUC := usecase.NewProductUsecase(productRepo, txManager)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo, couponRepo, clock)
	couponUC := usecase.NewCouponUsecase(cartRepo, couponRepo, clock)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, userRepo, gateway, renderer, mailer, cfg.ConsolidatedInvoice, clock, logger)
	paymentUC := usecase.NewPaymentUsecase(txManager, cfg.RazorpayKeySecret, cfg.ConsolidatedInvoice, clock, logger)
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo)
	sellerOrderUC := usecase.NewSellerOrderUsecase(txManager, orderRepo)
	invoiceUC := usecase.NewInvoiceUsecase(invoiceRepo, orderRepo, renderer)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo, cartRepo, cartItemRepo)
	refundUC := usecase.NewRefundUsecase(refundRepo, orderRepo)

	handlers := server.Handlers{
		Auth:          handler.NewAuthHandler(registerUC, loginUC, userRepo, rtRepo, refreshTTL),
		Product:       handler.NewProductHandler(productUC),
		SellerProduct: handler.NewSellerProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Coupon:        handler.NewCouponHandler(couponUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		Payment:       handler.NewPaymentHandler(paymentUC),
		Order:         handler.NewOrderHandler(orderUC),
		SellerOrder:   handler.NewSellerOrderHandler(sellerOrderUC),
		Invoice:       handler.NewInvoiceHandler(invoiceUC),
		Wishlist:      handler.NewWishlistHandler(wishlistUC),
		Refund:        handler.NewRefundHandler(refundUC),
	}

	e := server.New(cfg, logger, userRepo, handlers)

	addr := ":" + cfg.Port
	logger.Info("starting api", "addr", addr, "env", cfg.GoEnv)
	if err := e.Start(addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
