package server

import (
	"elixa-backend/internal/auth"
	"elixa-backend/internal/handler"
	appmw "elixa-backend/internal/middleware"
	"elixa-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	tokenIssuer    *auth.TokenIssuer
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	paymentHandler *handler.PaymentHandler
	orderHandler   *handler.OrderHandler
	contactHandler *handler.ContactHandler
}

func NewServer(
	tokenIssuer *auth.TokenIssuer,
	userService service.UserService,
	productService service.ProductService,
	cartService service.CartService,
	paymentService service.PaymentService,
	orderService service.OrderService,
	contactService service.ContactService,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		tokenIssuer:    tokenIssuer,
		userHandler:    handler.NewUserHandler(userService),
		productHandler: handler.NewProductHandler(productService),
		cartHandler:    handler.NewCartHandler(cartService),
		paymentHandler: handler.NewPaymentHandler(paymentService),
		orderHandler:   handler.NewOrderHandler(orderService),
		contactHandler: handler.NewContactHandler(contactService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	authRequired := appmw.AuthMiddleware(s.tokenIssuer)

	// -------- users --------
	user := api.Group("/user")
	user.POST("/register", s.userHandler.Register)
	user.GET("/verify/:token", s.userHandler.VerifyEmail)
	user.POST("/login", s.userHandler.Login)
	user.GET("/profile", s.userHandler.GetProfile, authRequired)
	user.PUT("/profile", s.userHandler.UpdateProfile, authRequired)

	// -------- products --------
	api.GET("/products", s.productHandler.ListProducts)
	api.GET("/products/:id", s.productHandler.GetProduct)

	admin := api.Group("/admin", authRequired, appmw.AdminOnly())
	admin.POST("/products", s.productHandler.CreateProduct)
	admin.PUT("/products/:id", s.productHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.productHandler.DeleteProduct)

	// -------- cart --------
	cart := api.Group("/cart", authRequired)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PUT("/items", s.cartHandler.UpdateItem)
	cart.DELETE("/items/:productID", s.cartHandler.RemoveItem)

	// -------- payments --------
	payment := api.Group("/payment", authRequired)
	payment.POST("/initiate", s.paymentHandler.InitiatePayment)
	payment.POST("/verify", s.paymentHandler.VerifyPayment)

	// -------- orders --------
	api.GET("/orders", s.orderHandler.ListOrders, authRequired)

	// -------- contact --------
	api.POST("/contact", s.contactHandler.SubmitMessage)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
