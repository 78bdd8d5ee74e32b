package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/cache"
	"github.com/sandwichshop/ordering-api/controllers"
	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/middlewares"
	"github.com/sandwichshop/ordering-api/services"
)

// Deps are the long-lived collaborators the HTTP layer is built from.
type Deps struct {
	DB          *gorm.DB
	Hub         *kds.Hub
	Pricing     *services.PricingEngine
	Idempotency cache.IdempotencyStore

	JWTSecret      []byte
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.LoggerMiddleware(), middlewares.CORSMiddlewares(d.CORSOrigin), middlewares.SecurityHeaders())
	if d.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst).RateLimit())
	}

	locks := services.NewOrderLocks()
	workflow := services.NewOrderLineWorkflow(d.DB, d.Pricing, locks, d.Hub)
	orderService := services.NewOrderService(d.DB, d.Pricing, locks, d.Hub)

	orderCtrl := controllers.NewOrderController(orderService)
	detailCtrl := controllers.NewOrderDetailController(d.DB, workflow, d.Idempotency)
	sandwichCtrl := controllers.NewSandwichController(services.NewSandwichService(d.DB))
	resourceCtrl := controllers.NewResourceController(d.DB)
	recipeCtrl := controllers.NewRecipeController(d.DB)
	promoCtrl := controllers.NewPromotionController(d.DB)
	ratingCtrl := controllers.NewRatingController(d.DB)
	tagCtrl := controllers.NewTagController(d.DB)
	analyticsCtrl := controllers.NewAnalyticsController(services.NewAnalyticsService(d.DB), d.Pricing.Now)
	kitchenCtrl := controllers.NewKitchenController(d.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	details := r.Group("/order-details")
	{
		details.POST("", detailCtrl.CreateOrderDetail)
		details.GET("", detailCtrl.GetAllOrderDetails)
		details.GET("/:id", detailCtrl.GetOrderDetail)
		details.PUT("/:id", detailCtrl.UpdateOrderDetail)
		details.DELETE("/:id", detailCtrl.DeleteOrderDetail)
	}

	orders := r.Group("/orders")
	{
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.PUT("/:id", orderCtrl.UpdateOrder)
		orders.DELETE("/:id", orderCtrl.DeleteOrder)
		orders.POST("/:id/recompute", orderCtrl.RecomputeOrder)
	}

	customer := r.Group("/customer")
	{
		customer.GET("/orders/track/:tracking_number", orderCtrl.TrackOrder)
		customer.GET("/menu/search", sandwichCtrl.SearchByTag)
	}

	sandwiches := r.Group("/sandwiches")
	{
		sandwiches.POST("", sandwichCtrl.CreateSandwich)
		sandwiches.GET("", sandwichCtrl.GetAllSandwiches)
		sandwiches.GET("/:id", sandwichCtrl.GetSandwich)
		sandwiches.PUT("/:id", sandwichCtrl.UpdateSandwich)
		sandwiches.DELETE("/:id", sandwichCtrl.DeleteSandwich)
	}

	resources := r.Group("/resources")
	{
		resources.POST("", resourceCtrl.CreateResource)
		resources.GET("", resourceCtrl.GetAllResources)
		resources.GET("/:id", resourceCtrl.GetResource)
		resources.PUT("/:id", resourceCtrl.UpdateResource)
		resources.DELETE("/:id", resourceCtrl.DeleteResource)
	}

	recipes := r.Group("/recipes")
	{
		recipes.POST("", recipeCtrl.CreateRecipe)
		recipes.GET("", recipeCtrl.GetAllRecipes)
		recipes.GET("/:id", recipeCtrl.GetRecipe)
		recipes.PUT("/:id", recipeCtrl.UpdateRecipe)
		recipes.DELETE("/:id", recipeCtrl.DeleteRecipe)
	}

	promotions := r.Group("/promotions")
	{
		promotions.POST("", promoCtrl.CreatePromotion)
		promotions.GET("", promoCtrl.GetAllPromotions)
		promotions.GET("/:id", promoCtrl.GetPromotion)
		promotions.PUT("/:id", promoCtrl.UpdatePromotion)
		promotions.DELETE("/:id", promoCtrl.DeletePromotion)
	}

	ratings := r.Group("/ratings")
	{
		ratings.POST("", ratingCtrl.CreateRating)
		ratings.GET("", ratingCtrl.GetAllRatings)
		ratings.GET("/:id", ratingCtrl.GetRating)
		ratings.PUT("/:id", ratingCtrl.UpdateRating)
		ratings.DELETE("/:id", ratingCtrl.DeleteRating)
	}

	tags := r.Group("/tags")
	{
		tags.POST("", tagCtrl.CreateTag)
		tags.GET("", tagCtrl.GetAllTags)
		tags.GET("/:id", tagCtrl.GetTag)
		tags.PUT("/:id", tagCtrl.UpdateTag)
		tags.DELETE("/:id", tagCtrl.DeleteTag)
	}

	staff := r.Group("/staff")
	if len(d.JWTSecret) > 0 {
		staff.Use(middlewares.StaffAuth(d.JWTSecret), middlewares.RequireRole("staff", "manager"))
	}
	{
		staff.GET("/least-popular-dishes", analyticsCtrl.LeastPopularDishes)
		staff.GET("/complaints", analyticsCtrl.Complaints)
		staff.GET("/daily-revenue", analyticsCtrl.DailyRevenue)
	}

	kitchen := r.Group("/kitchen")
	kitchen.Use(middlewares.WebSocketAuthMiddleware(d.JWTSecret))
	if len(d.JWTSecret) > 0 {
		kitchen.Use(middlewares.RequireRole("chef", "staff"))
	}
	{
		kitchen.GET("/ws", kitchenCtrl.KDSHandler)
	}

	return r
}
