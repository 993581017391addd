package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nlquery-backend/internal/llm"
	"nlquery-backend/internal/metrics"
	"nlquery-backend/internal/question"
	"nlquery-backend/internal/sqlgen"
	"nlquery-backend/internal/websocket"
)

type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Port          string

	// DBConnectTimeoutMs bounds opening each request's database
	DBConnectTimeoutMs int
}

type App struct {
	Config   *Config
	Router   *gin.Engine
	WSServer *websocket.Server
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	llmClient, err := llm.NewOpenAIClient(config.OpenAIAPIKey, config.OpenAIBaseURL, config.OpenAIModel)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	service := question.NewQuestionService(
		question.DefaultConnector{TimeoutMs: config.DBConnectTimeoutMs},
		sqlgen.NewGenerator(llmClient),
	)

	app := NewApp(config, service)
	app.WSServer.Start()
	defer app.WSServer.Stop()

	addr := ":" + config.Port
	log.Printf("HTTP server starting on port %s (model %s)", config.Port, llmClient.GetModel())
	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig() (*Config, error) {
	config := &Config{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", llm.DefaultModel),
		Port:          getEnv("PORT", "8000"),
	}
	if config.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	timeout, err := strconv.Atoi(getEnv("DB_CONNECT_TIMEOUT_MS", "10000"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("DB_CONNECT_TIMEOUT_MS must be a positive integer")
	}
	config.DBConnectTimeoutMs = timeout

	return config, nil
}

// NewApp builds the router around a question service
func NewApp(config *Config, service question.QuestionService) *App {
	app := &App{
		Config:   config,
		WSServer: websocket.NewServer(service),
	}
	app.InitRouter()
	return app
}

func (app *App) InitRouter() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app.Router = gin.New()
	app.Router.Use(gin.Logger())
	app.Router.Use(gin.Recovery())

	// CORS configuration
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	app.Router.Use(cors.New(config))

	app.Router.GET("/", app.rootHandler)
	app.Router.GET("/api/health", app.healthHandler)
	app.Router.GET("/metrics", gin.WrapH(metrics.Handler()))

	app.WSServer.RegisterRoutes(app.Router)
}

func (app *App) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "World"})
}

func (app *App) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().Unix(),
		"connections": app.WSServer.Hub().GetConnectionCount(),
	})
}
