package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/ai"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/config"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/database"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/handlers"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/imagestore"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/repository"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if dbDir := filepath.Dir(cfg.DatabasePath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create database directory %s: %v", dbDir, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	store, err := imagestore.NewStore(cfg.UploadDir, cfg.MaxFileSize, cfg.MaxImageDimension)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize image store: %v", err)
	}

	// the AI provider is chosen once at startup; without an API key the
	// deterministic stub keeps the analysis pipeline operational
	var completer ai.ChatCompleter
	if cfg.AIAPIKey != "" {
		completer = ai.NewOpenRouterClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AITimeout)
		log.Printf("Using AI provider at %s (model %s)", cfg.AIBaseURL, cfg.AIModel)
	} else {
		completer = ai.NewStubClient()
		log.Printf("Warning: AI_API_KEY not set, using stub AI client")
	}
	analyzer := ai.NewAnalyzer(completer, cfg.AIModel, cfg.AIMaxTokens, cfg.AITemperature)

	userRepo := repository.NewGormUserRepository(db)
	imageRepo := repository.NewGormFoodImageRepository(db)
	analysisRepo := repository.NewGormAnalysisRepository(db)
	allergenRepo := repository.NewGormAllergenRepository(db)

	userService := services.NewUserService(userRepo, imageRepo, store)
	nutritionService := services.NewNutritionService(analyzer, imageRepo, analysisRepo, allergenRepo)

	log.Printf("Storing uploads in: %s", store.Dir())
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Image max dimension (longest side): %dpx", cfg.MaxImageDimension)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * cfg.AITimeout))
	r.Use(corsHandler.Handler)

	userHandler := &handlers.UserHandler{Users: userService}
	imageHandler := &handlers.ImageHandler{Users: userService}
	analysisHandler := &handlers.AnalysisHandler{Nutrition: nutritionService}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.CreateUser)
			r.Get("/lookup", userHandler.LookupUser)
			r.Route("/{user_id}", func(r chi.Router) {
				r.Put("/", userHandler.UpdateUser)
				r.Post("/images", imageHandler.UploadImage)
				r.Get("/images", imageHandler.ListImages)
			})
		})

		r.Route("/images/{image_id}", func(r chi.Router) {
			r.Delete("/", imageHandler.DeleteImage)
			r.Post("/analyze", analysisHandler.AnalyzeImage)
		})

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/", analysisHandler.ListRecent)
			r.Get("/{analysis_id}", analysisHandler.GetAnalysis)
		})
	})

	r.Get("/uploads/*", handlers.UploadServer(store.Dir()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.AITimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
