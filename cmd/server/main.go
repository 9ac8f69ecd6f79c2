package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"senstosales/internal/auth"
	"senstosales/internal/command"
	"senstosales/internal/config"
	"senstosales/internal/handler"
	"senstosales/internal/logger"
	"senstosales/internal/port"
	"senstosales/internal/repository/sqlstore"
	"senstosales/internal/router"
	"senstosales/internal/sequence"
	"senstosales/internal/service"
	s3storage "senstosales/internal/storage/s3"
	"senstosales/internal/tax"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl := logger.New(&cfg.Log)
	defer func() { _ = zl.Sync() }()
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := sqlstore.MigrateUp(db); err != nil {
			return err
		}
		zl.Info("migrations applied", zap.String("driver", cfg.DB.Driver))
	}

	store := sqlstore.NewStore(db)

	// HSN master is read once; reload requires a restart.
	hsnEntries, err := sqlstore.NewHSNRepo(db).LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load HSN master: %w", err)
	}
	lookup := tax.NewHSNLookup(hsnEntries)
	zl.Info("HSN master loaded", zap.Int("codes", lookup.Len()))

	rates := tax.NewRateSelector(lookup, cfg.Ledger.SellerStateCode,
		decimal.NewFromFloat(cfg.Ledger.DefaultCGSTRate),
		decimal.NewFromFloat(cfg.Ledger.DefaultSGSTRate),
		decimal.NewFromFloat(cfg.Ledger.DefaultIGSTRate),
	)

	archive, err := newArchive(ctx, &cfg.S3)
	if err != nil {
		return err
	}

	// Initialize services
	poSvc := service.NewPurchaseOrderService(store, zl)
	challanSvc := service.NewChallanService(store, sequence.NewGenerator(cfg.Ledger.DCPrefix), zl)
	invoiceSvc := service.NewInvoiceService(store, sequence.NewGenerator(cfg.Ledger.InvoicePrefix), rates, archive, zl)
	receiptSvc := service.NewReceiptService(store, zl)
	ledgerSvc := service.NewLedgerService(store)
	dispatcher := command.NewDispatcher(challanSvc, invoiceSvc, ledgerSvc, zl)

	// Setup router
	r := router.Setup(cfg, zl, auth.NewVerifier(cfg.JWT), router.Handlers{
		Health:         handler.NewHealthHandler(store),
		PurchaseOrders: handler.NewPurchaseOrderHandler(poSvc, ledgerSvc),
		Challans:       handler.NewChallanHandler(challanSvc),
		Invoices:       handler.NewInvoiceHandler(invoiceSvc),
		Receipts:       handler.NewReceiptHandler(receiptSvc),
		Actions:        handler.NewActionHandler(dispatcher),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("db", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newArchive(ctx context.Context, cfg *config.S3Config) (port.InvoiceArchive, error) {
	if cfg.Bucket == "" {
		return s3storage.NewNoopArchive(), nil
	}
	client, err := s3storage.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return s3storage.NewInvoiceArchive(client, cfg.Bucket, cfg.Prefix), nil
}
