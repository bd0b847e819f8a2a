// Command server runs the stockbook HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/auth"
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/domain/documents/bom"
	"stockbook/internal/domain/documents/invoice"
	"stockbook/internal/domain/documents/payment"
	"stockbook/internal/domain/documents/production"
	"stockbook/internal/domain/documents/purchase"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/domain/recon"
	"stockbook/internal/domain/registers/ledger"
	"stockbook/internal/domain/registers/stock"
	"stockbook/internal/infrastructure/config"
	v1 "stockbook/internal/infrastructure/http/v1"
	"stockbook/internal/infrastructure/numerator"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/catalog_repo"
	"stockbook/internal/infrastructure/storage/postgres/document_repo"
	"stockbook/internal/infrastructure/storage/postgres/register_repo"
	"stockbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatalw("load config", "error", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		logger.Default().Fatalw("init logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	poolCfg.MaxConns = int32(cfg.DB.MaxConns)
	poolCfg.MinConns = int32(cfg.DB.MinConns)

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	gen := numerator.New(txManager)

	itemRepo := catalog_repo.NewItemRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)

	stockRepo := register_repo.NewStockRepo(txManager)
	ledgerRepo := register_repo.NewLedgerRepo(txManager)
	reconRepo := register_repo.NewReconRepo(txManager)

	bomRepo := document_repo.NewBOMRepo(txManager)
	purchaseRepo := document_repo.NewPurchaseRepo(txManager)
	saleRepo := document_repo.NewSaleRepo(txManager)
	productionRepo := document_repo.NewProductionRepo(txManager)
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	paymentRepo := document_repo.NewPaymentRepo(txManager)

	itemSvc := item.NewService(itemRepo, txManager, gen)
	warehouseSvc := warehouse.NewService(warehouseRepo, txManager, gen)

	stockSvc := stock.NewService(stockRepo, txManager, gen)
	ledgerSvc := ledger.NewService(ledgerRepo, txManager)

	customerSvc := customer.NewService(customerRepo, txManager, ledgerSvc, gen)

	bomSvc := bom.NewService(bomRepo, itemRepo, txManager, gen)
	purchaseSvc := purchase.NewService(purchaseRepo, itemRepo, warehouseRepo, stockSvc, txManager, gen)
	saleSvc := sale.NewService(saleRepo, itemRepo, warehouseRepo, customerRepo, stockSvc, txManager, gen)
	productionSvc := production.NewService(productionRepo, itemRepo, warehouseRepo, stockSvc, txManager, gen)
	invoiceSvc := invoice.NewService(invoiceRepo, customerRepo, ledgerSvc, txManager, gen)
	paymentSvc := payment.NewService(paymentRepo, customerRepo, invoiceSvc, invoiceRepo, ledgerSvc, txManager, gen)

	// Derived state is repaired before the first request is accepted.
	reconSvc := recon.NewService(reconRepo, invoiceRepo, customerRepo, txManager)
	summary, err := reconSvc.Run(ctx)
	if err != nil {
		return err
	}
	log.Infow("startup reconciliation finished",
		"balances_corrected", summary.BalancesCorrected,
		"balances_deleted", summary.BalancesDeleted,
		"items_corrected", summary.ItemsCorrected,
		"invoices_corrected", summary.InvoicesCorrected,
		"customers_corrected", summary.CustomersCorrected,
		"duration", summary.Duration.String(),
	)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	})

	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool.Unwrap(),
		Logger:    log,
		Validator: jwtSvc,

		Items:      itemSvc,
		Warehouses: warehouseSvc,
		Customers:  customerSvc,

		Stock:  stockSvc,
		Ledger: ledgerSvc,

		BOMs:        bomSvc,
		Purchases:   purchaseSvc,
		Sales:       saleSvc,
		Productions: productionSvc,
		Invoices:    invoiceSvc,
		Payments:    paymentSvc,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.HTTP.ShutdownTimeoutSec)*time.Second,
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Infow("server stopped")
	return nil
}
