// Package app wires repositories, use cases and handlers for the binaries and the
// end-to-end tests.
package app

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	ahHandler "github.com/fekuna/omnipos-sales-service/internal/accountholding/handler"
	ahRepo "github.com/fekuna/omnipos-sales-service/internal/accountholding/repository"
	ahUC "github.com/fekuna/omnipos-sales-service/internal/accountholding/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister"
	cashHandler "github.com/fekuna/omnipos-sales-service/internal/cashregister/handler"
	cashRepo "github.com/fekuna/omnipos-sales-service/internal/cashregister/repository"
	cashUC "github.com/fekuna/omnipos-sales-service/internal/cashregister/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	catHandler "github.com/fekuna/omnipos-sales-service/internal/category/handler"
	catRepo "github.com/fekuna/omnipos-sales-service/internal/category/repository"
	catUC "github.com/fekuna/omnipos-sales-service/internal/category/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	custHandler "github.com/fekuna/omnipos-sales-service/internal/customer/handler"
	custRepo "github.com/fekuna/omnipos-sales-service/internal/customer/repository"
	custUC "github.com/fekuna/omnipos-sales-service/internal/customer/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/discount"
	discHandler "github.com/fekuna/omnipos-sales-service/internal/discount/handler"
	discRepo "github.com/fekuna/omnipos-sales-service/internal/discount/repository"
	discUC "github.com/fekuna/omnipos-sales-service/internal/discount/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	invHandler "github.com/fekuna/omnipos-sales-service/internal/inventory/handler"
	invRepo "github.com/fekuna/omnipos-sales-service/internal/inventory/repository"
	invUC "github.com/fekuna/omnipos-sales-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/payment"
	payHandler "github.com/fekuna/omnipos-sales-service/internal/payment/handler"
	payRepo "github.com/fekuna/omnipos-sales-service/internal/payment/repository"
	payUC "github.com/fekuna/omnipos-sales-service/internal/payment/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	prodHandler "github.com/fekuna/omnipos-sales-service/internal/product/handler"
	prodRepo "github.com/fekuna/omnipos-sales-service/internal/product/repository"
	prodUC "github.com/fekuna/omnipos-sales-service/internal/product/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/quotation"
	quoteHandler "github.com/fekuna/omnipos-sales-service/internal/quotation/handler"
	quoteRepo "github.com/fekuna/omnipos-sales-service/internal/quotation/repository"
	quoteUC "github.com/fekuna/omnipos-sales-service/internal/quotation/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	saleHandler "github.com/fekuna/omnipos-sales-service/internal/sale/handler"
	saleRepo "github.com/fekuna/omnipos-sales-service/internal/sale/repository"
	saleUC "github.com/fekuna/omnipos-sales-service/internal/sale/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/search"
	"github.com/fekuna/omnipos-sales-service/internal/server"
	"github.com/fekuna/omnipos-sales-service/internal/soldproduct"
	soldRepo "github.com/fekuna/omnipos-sales-service/internal/soldproduct/repository"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/fekuna/omnipos-sales-service/internal/user"
	userHandler "github.com/fekuna/omnipos-sales-service/internal/user/handler"
	userRepo "github.com/fekuna/omnipos-sales-service/internal/user/repository"
	userUC "github.com/fekuna/omnipos-sales-service/internal/user/usecase"
	"github.com/jmoiron/sqlx"
)

// Repositories is one backend's implementation of every store plus its unit of work.
type Repositories struct {
	Categories      category.Repository
	Products        product.Repository
	Inventory       inventory.Repository
	Discounts       discount.Repository
	Customers       customer.Repository
	Users           user.Repository
	AccountHoldings accountholding.Repository
	SoldProducts    soldproduct.Repository
	Payments        payment.Repository
	Sales           sale.Repository
	Quotations      quotation.Repository
	CashRegister    cashregister.Repository
	Tx              database.Transactor
	DB              server.Pinger
}

func SQLRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Categories:      catRepo.NewSQLRepository(db),
		Products:        prodRepo.NewSQLRepository(db),
		Inventory:       invRepo.NewSQLRepository(db),
		Discounts:       discRepo.NewSQLRepository(db),
		Customers:       custRepo.NewSQLRepository(db),
		Users:           userRepo.NewSQLRepository(db),
		AccountHoldings: ahRepo.NewSQLRepository(db),
		SoldProducts:    soldRepo.NewSQLRepository(db),
		Payments:        payRepo.NewSQLRepository(db),
		Sales:           saleRepo.NewSQLRepository(db),
		Quotations:      quoteRepo.NewSQLRepository(db),
		CashRegister:    cashRepo.NewSQLRepository(db),
		Tx:              database.NewTransactor(db),
		DB:              db,
	}
}

func MemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Categories:      store.Categories(),
		Products:        store.Products(),
		Inventory:       store.Inventory(),
		Discounts:       store.Discounts(),
		Customers:       store.Customers(),
		Users:           store.Users(),
		AccountHoldings: store.AccountHoldings(),
		SoldProducts:    store.SoldProducts(),
		Payments:        store.Payments(),
		Sales:           store.Sales(),
		Quotations:      store.Quotations(),
		CashRegister:    store.CashRegister(),
		Tx:              store,
		DB:              store,
	}
}

// Open connects the configured backend. The returned close function releases it.
func Open(ctx context.Context, cfg *database.Config, autoMigrate bool) (*Repositories, func() error, error) {
	if cfg.Driver == database.DriverMemory {
		return MemoryRepositories(memory.NewStore()), func() error { return nil }, nil
	}

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if autoMigrate {
		if err := database.Migrate(ctx, db, cfg.Driver); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return SQLRepositories(db), db.Close, nil
}

// Infra holds the optional backends. Nil members disable the feature they serve.
type Infra struct {
	Locker    cache.Locker
	LockTTL   time.Duration
	Cache     *cache.RedisClient
	CacheTTL  time.Duration
	Search    *search.Client
	Index     string
	Publisher broker.Publisher
}

type UseCases struct {
	Categories      category.UseCase
	Products        product.UseCase
	Inventory       inventory.UseCase
	Discounts       discount.UseCase
	Customers       customer.UseCase
	Users           user.UseCase
	AccountHoldings accountholding.UseCase
	Payments        payment.UseCase
	Sales           sale.UseCase
	Quotations      quotation.UseCase
	CashRegister    cashregister.UseCase
}

func NewUseCases(repos *Repositories, infra Infra, clk clock.Clock, log logger.ZapLogger) *UseCases {
	inv := invUC.NewInventoryUseCase(repos.Inventory, repos.Tx, infra.Locker, infra.LockTTL, infra.Publisher, clk, log)
	sales := saleUC.NewSaleUseCase(repos.Sales, repos.AccountHoldings, repos.SoldProducts, repos.Tx, infra.Publisher, clk, log)

	holdings := ahUC.NewAccountHoldingUseCase(ahUC.Repositories{
		AccountHoldings: repos.AccountHoldings,
		Customers:       repos.Customers,
		Users:           repos.Users,
		Products:        repos.Products,
		SoldProducts:    repos.SoldProducts,
		Payments:        repos.Payments,
	}, inv, repos.Tx, infra.Locker, infra.LockTTL, clk, log)

	return &UseCases{
		Categories: catUC.NewCategoryUseCase(repos.Categories, clk, log),
		Products: prodUC.NewProductUseCase(repos.Products, prodUC.Options{
			Cache:    infra.Cache,
			CacheTTL: infra.CacheTTL,
			Search:   infra.Search,
			Index:    infra.Index,
		}, clk, log),
		Inventory:       inv,
		Discounts:       discUC.NewDiscountUseCase(repos.Discounts, repos.Products, clk, log),
		Customers:       custUC.NewCustomerUseCase(repos.Customers, clk, log),
		Users:           userUC.NewUserUseCase(repos.Users, clk, log),
		AccountHoldings: holdings,
		Payments: payUC.NewPaymentUseCase(repos.Payments, repos.AccountHoldings, repos.SoldProducts,
			inv, sales, repos.Tx, infra.Locker, infra.LockTTL, clk, log),
		Sales: sales,
		Quotations: quoteUC.NewQuotationUseCase(quoteUC.Repositories{
			Quotations:   repos.Quotations,
			Customers:    repos.Customers,
			Users:        repos.Users,
			Products:     repos.Products,
			SoldProducts: repos.SoldProducts,
		}, holdings, repos.Tx, clk, log),
		CashRegister: cashUC.NewCashRegisterUseCase(repos.CashRegister, repos.Users, repos.Payments, repos.Tx, clk, log),
	}
}

func (uc *UseCases) Handlers(log logger.ZapLogger) server.Handlers {
	return server.Handlers{
		Categories:      catHandler.NewCategoryHandler(uc.Categories, log),
		Products:        prodHandler.NewProductHandler(uc.Products, log),
		Inventory:       invHandler.NewInventoryHandler(uc.Inventory, log),
		Customers:       custHandler.NewCustomerHandler(uc.Customers, log),
		Users:           userHandler.NewUserHandler(uc.Users, log),
		AccountHoldings: ahHandler.NewAccountHoldingHandler(uc.AccountHoldings, log),
		Payments:        payHandler.NewPaymentHandler(uc.Payments, log),
		Sales:           saleHandler.NewSaleHandler(uc.Sales, log),
		Discounts:       discHandler.NewDiscountHandler(uc.Discounts, log),
		Quotations:      quoteHandler.NewQuotationHandler(uc.Quotations, log),
		CashRegister:    cashHandler.NewCashRegisterHandler(uc.CashRegister, log),
	}
}
