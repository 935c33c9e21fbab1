package routes

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	_ "construmax/docs" // This will be auto-generated
	"construmax/internal/adapter/http/handlers"
	repository2 "construmax/internal/adapter/persistence/repository"
	"construmax/internal/cache"
	"construmax/internal/infrastructure/database"
	"construmax/internal/infrastructure/mail"
	"construmax/internal/usecase"
	"construmax/internal/usecase/interfaces"
	"construmax/internal/worker"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const defaultPort = 8080

// Run wires the dependencies, starts the notification worker and serves
// until SIGINT/SIGTERM, then drains the worker before exiting.
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	dispatcher := getRoutes(ctx, &wg)

	port := defaultPort
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil && v > 0 {
		port = v
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to startup the application: %v", err.Error())
		}
	}()
	log.Printf("[http] listening on :%d", port)

	<-ctx.Done()
	log.Println("[http] shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[http] server shutdown error: %v", err)
	}

	dispatcher.Stop()
	wg.Wait()
	log.Println("[http] bye")
}

func getRoutes(ctx context.Context, wg *sync.WaitGroup) *worker.Dispatcher {
	ddb := database.ConnectDynamoDB()

	var productCache cache.ProductCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		client, err := cache.NewClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Printf("Product cache not configured: %v", err)
		} else {
			productCache = cache.NewProductCache(client)
		}
	}

	quoteRepo := repository2.NewQuoteDynamoRepository(ddb)
	productRepo := repository2.NewProductDynamoRepository(ddb, productCache)

	var sender interfaces.IMailSender
	smtpSender, err := mail.NewSMTPSenderFromEnv()
	if err != nil {
		log.Printf("Mail sender not configured: %v", err)
	} else {
		sender = smtpSender
		if !smtpSender.Verify(ctx) {
			log.Printf("[mail] transport verify failed at startup; deliveries will be skipped until it recovers")
		}
	}

	queueSize, _ := strconv.Atoi(os.Getenv("NOTIFICATION_QUEUE_SIZE"))
	dispatcher := worker.NewDispatcher(queueSize)
	if err := dispatcher.Start(ctx, wg); err != nil {
		log.Fatalf("Failed to start notification dispatcher: %v", err)
	}

	notifier := usecase.NewNotificationUseCase(
		quoteRepo,
		sender,
		dispatcher,
		getenvDefault("MAIL_SENDER_ADDRESS", "noreply@construmax.example"),
		getenvDefault("MAIL_SENDER_NAME", "Construmax"),
		getenvDefault("MAIL_ADMIN_ADDRESS", "sales@construmax.example"),
	)

	quoteUseCase := usecase.NewQuoteUseCase(quoteRepo, productRepo, notifier, usecase.QuoteUseCaseOptions{
		AllowCancellation:    getenvBool("QUOTE_CANCELLATION_ENABLED", true),
		AllowCustomerReplied: getenvBool("QUOTE_COMMUNICATIONS_ENABLED", false),
	})

	quoteHandler := handlers.NewQuoteHandler(quoteUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuoteRoutes(v1, quoteHandler)

	return dispatcher
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
