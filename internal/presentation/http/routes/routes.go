package routes

import (
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/config"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/handler"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Medicine *handler.MedicineHandler
	Category *handler.CategoryHandler
	Rack     *handler.RackHandler
	Supplier *handler.SupplierHandler
	Purchase *handler.PurchaseHandler
	Sale     *handler.SaleHandler
	Report   *handler.ReportHandler
	Receipt  *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes. RateLimiter is
// created from Cfg.RateLimit when nil.
type Deps struct {
	Cfg         *config.Config
	Replays     domainRepo.ReplayRepository
	RateLimiter *middleware.ClientRateLimiter
	Log         *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(&deps.Cfg.RateLimit)
	}

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		v1.GET("/dashboard", h.Report.Dashboard)

		registerMedicineRoutes(v1, h)
		registerCategoryRoutes(v1, h)
		registerRackRoutes(v1, h)
		registerSupplierRoutes(v1, h)
		registerPurchaseRoutes(v1, h, deps)
		registerSaleRoutes(v1, h, deps)
		registerReportRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

// NewRateLimiter builds the per-client limiter from configuration.
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.ClientRateLimiter {
	return middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.Requests,
		Window:   time.Duration(cfg.Duration) * time.Second,
		EntryTTL: 10 * time.Minute,
	})
}

func idempotent(deps *Deps) gin.HandlerFunc {
	return middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.Replays,
		Log:  deps.Log,
	})
}

func registerMedicineRoutes(v1 *gin.RouterGroup, h *Handlers) {
	medicines := v1.Group("/medicines")
	{
		medicines.GET("", h.Medicine.List)
		medicines.POST("", h.Medicine.Create)
		medicines.POST("/import", h.Medicine.Import)
		medicines.POST("/pricing-preview", h.Medicine.PricingPreview)
		medicines.GET("/low-stock", h.Medicine.LowStock)
		medicines.GET("/expiring", h.Medicine.Expiring)
		medicines.GET("/:id", h.Medicine.Get)
		medicines.PUT("/:id", h.Medicine.Update)
		medicines.DELETE("/:id", h.Medicine.Delete)
		medicines.PUT("/:id/rack", h.Medicine.AssignRack)
	}
}

func registerCategoryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	categories := v1.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerRackRoutes(v1 *gin.RouterGroup, h *Handlers) {
	racks := v1.Group("/racks")
	{
		racks.GET("", h.Rack.List)
		racks.POST("", h.Rack.Create)
		racks.GET("/:id", h.Rack.Get)
		racks.PUT("/:id", h.Rack.Update)
		racks.DELETE("/:id", h.Rack.Delete)
		racks.GET("/:id/medicines", h.Rack.Medicines)
	}
}

func registerSupplierRoutes(v1 *gin.RouterGroup, h *Handlers) {
	suppliers := v1.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerPurchaseRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	purchases := v1.Group("/purchases")
	{
		purchases.GET("", h.Purchase.List)
		// Purchase creation uses idempotency middleware to prevent duplicates
		purchases.POST("", idempotent(deps), h.Purchase.Create)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.POST("/:id/receive", h.Purchase.Receive)
		purchases.POST("/:id/cancel", h.Purchase.Cancel)
		purchases.DELETE("/:id", h.Purchase.Delete)
	}
}

func registerSaleRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := v1.Group("/sales")
	{
		sales.POST("/quote", h.Sale.Quote)

		drafts := sales.Group("/drafts")
		drafts.POST("", h.Sale.StartDraft)
		drafts.GET("/:id", h.Sale.GetDraft)
		drafts.PUT("/:id", h.Sale.UpdateDetails)
		drafts.DELETE("/:id", h.Sale.Abandon)
		drafts.POST("/:id/items", h.Sale.AddLine)
		drafts.PUT("/:id/items/:item_id", h.Sale.UpdateLine)
		drafts.DELETE("/:id/items/:item_id", h.Sale.RemoveLine)
		drafts.PUT("/:id/payment", h.Sale.SetPayment)
		drafts.POST("/:id/submit", idempotent(deps), h.Sale.Submit)

		sales.GET("", h.Sale.List)
		sales.GET("/due", h.Sale.ListDue)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/pay", idempotent(deps), h.Sale.PayDue)
		sales.POST("/:id/cancel", h.Sale.Cancel)
		sales.GET("/:id/receipt", h.Receipt.Preview)
		sales.POST("/:id/print", h.Receipt.Print)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/purchases", h.Report.Purchases)
		reports.GET("/stock", h.Report.Stock)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Receipt.GetStatus)
		printer.POST("/test", h.Receipt.TestPrint)
	}
}
