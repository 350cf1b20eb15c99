// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"du-electronics-server/controllers"
	"du-electronics-server/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	tokenController *controllers.TokenController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	favouriteController *controllers.FavouriteController,
	userController *controllers.UserController,
	paymentController *controllers.PaymentController,
) {
	// Public routes
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("e-commerce server is running!"))
	}).Methods("GET")
	router.HandleFunc("/access-token", tokenController.AccessToken).Methods("POST")
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")
	router.HandleFunc("/users", userController.CreateUser).Methods("POST")

	// Checkout initiation and gateway callbacks. The callback paths are
	// the exact URLs the gateway account was configured with.
	router.HandleFunc("/payment", paymentController.CreatePayment).Methods("POST")
	router.HandleFunc("/paymnet/success/{tranId}", paymentController.PaymentSuccess).Methods("POST")
	router.HandleFunc("/paymnet/fail/{tranId}", paymentController.PaymentFail).Methods("POST")

	// Protected routes
	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	protected.HandleFunc("/carts", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/carts", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/carts", cartController.DeleteCart).Methods("DELETE")
	protected.HandleFunc("/favourites", favouriteController.GetFavourites).Methods("GET")
	protected.HandleFunc("/favourites", favouriteController.AddFavourite).Methods("POST")
	protected.HandleFunc("/favourites/{id}", favouriteController.DeleteFavourite).Methods("DELETE")

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/users", userController.GetUsers).Methods("GET")
	admin.HandleFunc("/users/admin/{id}", userController.MakeAdmin).Methods("PATCH")
	admin.HandleFunc("/users/{id}", userController.DeleteUser).Methods("DELETE")
}
