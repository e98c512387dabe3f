package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/config"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/handlers"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgFile string

// rootCmd serves the API when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "pmapi",
	Short: "Multi-tenant project and task tracking API",
	Run:   runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	Run:   runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	Run: func(cmd *cobra.Command, args []string) {
		_, db := mustConnect()
		if err := database.MigrateDatabase(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial accounts when the database is empty",
	Run: func(cmd *cobra.Command, args []string) {
		_, db := mustConnect()
		if err := database.MigrateDatabase(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		if _, err := database.Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func mustConnect() (*config.Config, *gorm.DB) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return cfg, db
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "redis" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // username (empty for default user)
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, db := mustConnect()
	gin.SetMode(cfg.GinMode)

	if err := database.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())

	// Task suggestions stay disabled without an API key
	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set, task suggestions are disabled")
	}

	router := handlers.NewRouter(services.New(db, tokens, suggester), handlers.RouterConfig{
		Tokens:         tokens,
		SessionStore:   store,
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	log.Printf("Server starting on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
