package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messaging-service/internal/assets"
	"messaging-service/internal/config"
	"messaging-service/internal/db"
	"messaging-service/internal/delivery"
	"messaging-service/internal/handlers"
	"messaging-service/internal/middleware"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/service"
	"messaging-service/internal/telemetry"
	"messaging-service/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, "messaging-service", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracer(ctx)

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))
	audit := telemetry.NewAuditEmitter(publisher, "audit_log.messaging", "messaging-service", cfg.Environment)
	observability.SetPublisher(publisher, "messaging-service")

	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	profileRepo := repositories.NewProfileRepo(database)

	hub := ws.NewHub()
	router := delivery.NewRouter(hub)
	resolver := assets.NewResolver(ctx, cfg.AssetBucket, cfg.AssetBaseURL)

	svc := service.NewMessagingService(conversationRepo, messageRepo, resolver, router)

	messageHandler := handlers.NewMessageHandler(svc, audit)
	conversationHandler := handlers.NewConversationHandler(svc)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	wsHandler := ws.NewHandler(hub)

	engine := gin.Default()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("messaging-service"))
	engine.Use(observability.HTTPMetricsMiddleware())
	engine.Use(middleware.RequestID())

	identity := middleware.Identity()

	engine.POST("/messages", identity, messageHandler.SendMessage)
	engine.GET("/messages/:other_user_id", identity, messageHandler.GetMessages)
	engine.POST("/messages/:message_id/reactions", identity, messageHandler.ToggleReaction)
	engine.PATCH("/messages/:message_id", identity, messageHandler.EditMessage)
	engine.GET("/conversations", identity, conversationHandler.ListConversations)
	engine.POST("/conversations/:conversation_id/seen", identity, conversationHandler.MarkSeen)
	engine.PUT("/profile", identity, profileHandler.UpsertProfile)
	engine.GET("/profiles/:user_id", identity, profileHandler.GetProfile)

	engine.GET("/ws", wsHandler.Handle)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
