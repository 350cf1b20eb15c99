// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"du-electronics-server/controllers"
	"du-electronics-server/gateway"
	"du-electronics-server/repository"
	"du-electronics-server/routes"
	"du-electronics-server/services"
	"du-electronics-server/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database("du-electronics")
	if err := utils.EnsureIndexes(context.TODO(), db); err != nil {
		log.Fatal(err)
	}

	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:5001"
	}
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}

	// Wire services against the document store
	lineItems := &services.LineItemService{
		Products:   repository.NewMongo(db, "products"),
		Carts:      repository.NewMongo(db, "carts"),
		Favourites: repository.NewMongo(db, "favourites"),
	}
	orchestrator := &services.PaymentOrchestrator{
		Transactions: repository.NewMongo(db, "payments"),
		Gateway:      gateway.NewSSLCommerz(os.Getenv("STORE_ID"), os.Getenv("STORE_PASSWD")),
		ServerURL:    serverURL,
	}
	if mailer := utils.NewEmailService(); mailer != nil {
		orchestrator.Mailer = mailer
	}

	// Initialize controllers
	tokenController := controllers.NewTokenController()
	productController := controllers.NewProductController(repository.NewMongo(db, "products"))
	cartController := controllers.NewCartController(lineItems)
	favouriteController := controllers.NewFavouriteController(lineItems)
	userController := controllers.NewUserController(repository.NewMongo(db, "users"))
	paymentController := controllers.NewPaymentController(orchestrator, clientURL)

	// Set up the router and register routes
	router := mux.NewRouter()
	routes.RegisterRoutes(router, tokenController, productController, cartController, favouriteController, userController, paymentController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}
	fmt.Printf("E-commerce server is running in PORT: %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
