package main

import (
	"flag"
	"log"
	"strconv"

	"planhub/config"
	"planhub/db"
	"planhub/routes"
	"planhub/services"
	"planhub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "path to the yaml config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := services.InitLLM(cfg); err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}

	var store db.Store
	if cfg.Database.URI != "" {
		if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Println("Connected to MongoDB")
		store = db.NewMongoStore()
	} else {
		log.Println("No database configured, workspace state is kept in memory")
		store = db.NewMemoryStore()
	}

	hub := websocket.NewHub()
	services.InitServices(store, hub, cfg.Review.HistoryLimit)

	router := setupRouter(cfg, hub)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config, hub *websocket.Hub) *gin.Engine {
	router := gin.Default()

	if err := router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}); err != nil {
		log.Fatalf("Failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	api := router.Group("/")
	{
		routes.SetupProjectRoutes(api)
		routes.SetupReviewRoutes(api)
		routes.SetupConfirmationRoutes(api)
		api.GET("/ws", hub.ServeWS)
	}

	return router
}
