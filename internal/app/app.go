// Package app builds the use cases, handlers and jobs on top of a storage
// backend. Both the server binary and the end-to-end tests start from here.
package app

import (
	"github.com/Emmanuel-365/chezflora-api/config"
	"github.com/Emmanuel-365/chezflora-api/internal/cart"
	cartHandler "github.com/Emmanuel-365/chezflora-api/internal/cart/handler"
	cartRepo "github.com/Emmanuel-365/chezflora-api/internal/cart/repository"
	cartUC "github.com/Emmanuel-365/chezflora-api/internal/cart/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	catalogHandler "github.com/Emmanuel-365/chezflora-api/internal/catalog/handler"
	catalogRepo "github.com/Emmanuel-365/chezflora-api/internal/catalog/repository"
	catalogUC "github.com/Emmanuel-365/chezflora-api/internal/catalog/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/order"
	orderHandler "github.com/Emmanuel-365/chezflora-api/internal/order/handler"
	orderRepo "github.com/Emmanuel-365/chezflora-api/internal/order/repository"
	orderUC "github.com/Emmanuel-365/chezflora-api/internal/order/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	paymentHandler "github.com/Emmanuel-365/chezflora-api/internal/payment/handler"
	paymentRepo "github.com/Emmanuel-365/chezflora-api/internal/payment/repository"
	paymentUC "github.com/Emmanuel-365/chezflora-api/internal/payment/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/cache"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/search"
	"github.com/Emmanuel-365/chezflora-api/internal/pricing"
	"github.com/Emmanuel-365/chezflora-api/internal/quote"
	quoteHandler "github.com/Emmanuel-365/chezflora-api/internal/quote/handler"
	quoteRepo "github.com/Emmanuel-365/chezflora-api/internal/quote/repository"
	quoteUC "github.com/Emmanuel-365/chezflora-api/internal/quote/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/scheduler"
	schedulerHandler "github.com/Emmanuel-365/chezflora-api/internal/scheduler/handler"
	"github.com/Emmanuel-365/chezflora-api/internal/server"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription"
	subscriptionHandler "github.com/Emmanuel-365/chezflora-api/internal/subscription/handler"
	subscriptionRepo "github.com/Emmanuel-365/chezflora-api/internal/subscription/repository"
	subscriptionUC "github.com/Emmanuel-365/chezflora-api/internal/subscription/usecase"
	"github.com/Emmanuel-365/chezflora-api/internal/user"
	userRepo "github.com/Emmanuel-365/chezflora-api/internal/user/repository"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop"
	workshopHandler "github.com/Emmanuel-365/chezflora-api/internal/workshop/handler"
	workshopRepo "github.com/Emmanuel-365/chezflora-api/internal/workshop/repository"
	workshopUC "github.com/Emmanuel-365/chezflora-api/internal/workshop/usecase"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Tx            storage.TxManager
	Users         user.Repository
	Catalog       catalog.Repository
	Carts         cart.Repository
	Orders        order.Repository
	Payments      payment.Repository
	Subscriptions subscription.Repository
	Quotes        quote.Repository
	Workshops     workshop.Repository
}

func PostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Tx:            postgres.NewTxManager(db),
		Users:         userRepo.NewPGRepository(db),
		Catalog:       catalogRepo.NewPGRepository(db),
		Carts:         cartRepo.NewPGRepository(db),
		Orders:        orderRepo.NewPGRepository(db),
		Payments:      paymentRepo.NewPGRepository(db),
		Subscriptions: subscriptionRepo.NewPGRepository(db),
		Quotes:        quoteRepo.NewPGRepository(db),
		Workshops:     workshopRepo.NewPGRepository(db),
	}
}

func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Tx:            s,
		Users:         s.Users(),
		Catalog:       s.Catalog(),
		Carts:         s.Carts(),
		Orders:        s.Orders(),
		Payments:      s.Payments(),
		Subscriptions: s.Subscriptions(),
		Quotes:        s.Quotes(),
		Workshops:     s.Workshops(),
	}
}

// Infra carries the optional backing services. Nil fields are skipped.
type Infra struct {
	Notifier notification.Notifier
	Redis    *cache.RedisClient
	Search   *search.Client
}

type App struct {
	Catalog      catalog.UseCase
	Cart         cart.UseCase
	Orders       order.UseCase
	Payments     payment.UseCase
	Subscription subscription.UseCase
	Quotes       quote.UseCase
	Workshops    workshop.UseCase
	Scheduler    *scheduler.Scheduler

	logger logger.ZapLogger
}

func New(cfg *config.Config, repos Repositories, infra Infra, log logger.ZapLogger) *App {
	notifier := infra.Notifier
	if notifier == nil {
		notifier = notification.NewLogNotifier(log)
	}
	dispatcher := notification.NewDispatcher(notifier, repos.Users, log)
	engine := pricing.NewEngine(repos.Catalog)

	var catalogOpts []catalogUC.Option
	if infra.Redis != nil {
		catalogOpts = append(catalogOpts, catalogUC.WithCache(infra.Redis))
	}
	if infra.Search != nil {
		catalogOpts = append(catalogOpts, catalogUC.WithSearch(infra.Search))
	}

	a := &App{logger: log}
	a.Payments = paymentUC.NewPaymentUseCase(repos.Payments, repos.Tx, log)
	a.Catalog = catalogUC.NewCatalogUseCase(repos.Catalog, repos.Tx, engine, dispatcher, cfg.Business.LowStockThreshold, log, catalogOpts...)
	a.Cart = cartUC.NewCartUseCase(repos.Catalog, repos.Carts, repos.Orders, a.Payments, engine, repos.Tx, dispatcher, log)
	a.Orders = orderUC.NewOrderUseCase(repos.Orders, repos.Catalog, a.Payments, repos.Tx, dispatcher, log)
	a.Subscription = subscriptionUC.NewSubscriptionUseCase(repos.Subscriptions, repos.Catalog, repos.Orders, a.Payments, repos.Tx, dispatcher, log)
	a.Quotes = quoteUC.NewQuoteUseCase(repos.Quotes, repos.Tx, dispatcher, cfg.Business.QuoteValidity, log)
	a.Workshops = workshopUC.NewWorkshopUseCase(repos.Workshops, a.Payments, repos.Tx, dispatcher, log)

	var locker scheduler.Locker = scheduler.NewLocalLocker()
	if infra.Redis != nil {
		locker = infra.Redis
	}
	a.Scheduler = scheduler.New(locker, cfg.Scheduler.LockTTL, log)
	a.Scheduler.RegisterDefaults(cfg.Scheduler, a.Subscription, a.Quotes, a.Catalog)
	return a
}

// Routes returns every HTTP handler in mount order.
func (a *App) Routes() []server.Routes {
	carts := cartHandler.NewCartHandler(a.Cart, a.logger)
	return []server.Routes{
		catalogHandler.NewCatalogHandler(a.Catalog, a.logger),
		server.RoutesFunc(func(r, _ *gin.RouterGroup) { carts.Register(r) }),
		orderHandler.NewOrderHandler(a.Orders, a.logger),
		paymentHandler.NewPaymentHandler(a.Payments, a.logger),
		subscriptionHandler.NewSubscriptionHandler(a.Subscription, a.logger),
		quoteHandler.NewQuoteHandler(a.Quotes, a.logger),
		workshopHandler.NewWorkshopHandler(a.Workshops, a.logger),
	}
}

func (a *App) JobHandler() *schedulerHandler.JobHandler {
	return schedulerHandler.NewJobHandler(a.Scheduler, a.logger)
}
