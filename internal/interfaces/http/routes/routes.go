// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/auth"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/domain/checkout"
	"github.com/your-org/gurukul-storefront/internal/domain/course"
	"github.com/your-org/gurukul-storefront/internal/domain/product"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
	"github.com/your-org/gurukul-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/gurukul-storefront/internal/interfaces/http/middleware"
)

// Dependencies are the services the routes dispatch to
type Dependencies struct {
	Cart     cart.Manager
	Sessions *session.Manager
	Auth     *auth.Service
	Products *product.Service
	Checkout *checkout.Service
	Courses  *course.Service
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Cart)

	c := rg.Group("/cart")
	{
		c.GET("", cartHandler.GetCart)
		c.DELETE("", cartHandler.ClearCart)
		c.POST("/items", cartHandler.AddItem)
		c.PATCH("/items/:id", cartHandler.UpdateItem)
		c.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}

// SetupAuthRoutes sets up login and session routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Sessions)

	a := rg.Group("/auth")
	{
		a.POST("/login", authHandler.Login)
		a.POST("/send-otp", authHandler.SendOTP)
		a.POST("/verify-otp", authHandler.VerifyOTP)
		a.POST("/logout", authHandler.Logout)
		a.GET("/session", authHandler.GetSession)
	}
}

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Products)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/types", productHandler.GetProductTypes)
	}
}

// SetupAdminRoutes sets up product management routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Products)

	admin := rg.Group("/admin")
	admin.Use(middleware.RequireSession(deps.Sessions))
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PATCH("/products/:type/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:type/:id", productHandler.DeleteProduct)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)

	co := rg.Group("/checkout")
	{
		co.GET("/quote", checkoutHandler.GetQuote)
		co.POST("/orders", checkoutHandler.PlaceOrder)

		payment := co.Group("/payment")
		payment.Use(middleware.RequireSession(deps.Sessions))
		{
			payment.POST("", checkoutHandler.InitiatePayment)
			payment.POST("/complete", checkoutHandler.CompletePayment)
		}
	}
}

// SetupCourseRoutes sets up baking course routes
func SetupCourseRoutes(rg *gin.RouterGroup, deps Dependencies) {
	courseHandler := handlers.NewCourseHandler(deps.Courses)

	courses := rg.Group("/courses")
	{
		courses.POST("/inquiries", courseHandler.SubmitInquiry)
	}
}

// SetupRoutes sets up every API route
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupCartRoutes(rg, deps)
	SetupAuthRoutes(rg, deps)
	SetupProductRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupCourseRoutes(rg, deps)
}
