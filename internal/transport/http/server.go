package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"docquery/internal/ai"
	appsvc "docquery/internal/app"
	"docquery/internal/bootstrap"
	"docquery/internal/cache"
	"docquery/internal/platform/rabbitmq"
	"docquery/internal/rank"
	"docquery/internal/repository"
	"docquery/internal/transport/http/handler"
	"docquery/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	docRepo := repository.NewDocumentRepository(app.MySQL)
	chunkRepo := repository.NewChunkRepository(app.MySQL)

	embedder := ai.NewEmbeddingClient(ai.EmbeddingConfig{
		BaseURL:     app.Config.Embedding.BaseURL,
		APIKey:      app.Config.Embedding.APIKey,
		Model:       app.Config.Embedding.Model,
		MaxAttempts: app.Config.Embedding.MaxAttempts,
	})
	engine := rank.NewLinear(app.Config.RAG.SimilarityThreshold)
	contextCache := cache.NewContextCache(
		app.Redis,
		time.Duration(app.Config.Redis.ContextTTLSeconds)*time.Second,
	)
	eventPublisher := rabbitmq.NewIngestEventPublisher(app.MQConn, app.Config.RabbitMQ.IngestEventQueue)

	ingestService := appsvc.NewIngestService(docRepo, chunkRepo, embedder, eventPublisher, app.Config.RAG)
	retrievalService := appsvc.NewRetrievalService(
		docRepo,
		chunkRepo,
		embedder,
		engine,
		contextCache,
		app.Config.RAG.ContextTopK,
		app.Config.RAG.SearchTopK,
	)
	documentService := appsvc.NewDocumentService(docRepo, chunkRepo, contextCache)
	authService := appsvc.NewAuthService(
		app.Config.Auth.AdminPasswordHash,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	uploadHandler := handler.NewUploadHandler(ingestService)
	documentHandler := handler.NewDocumentHandler(documentService)
	searchHandler := handler.NewSearchHandler(retrievalService)
	authHandler := handler.NewAuthHandler(authService)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/token", authHandler.Token)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)
	v1.POST("/documents", authRequired, uploadHandler.Upload)
	v1.GET("/documents", documentHandler.List)
	v1.GET("/documents/:id", documentHandler.Get)
	v1.GET("/documents/:id/chunks", documentHandler.ListChunks)
	v1.DELETE("/documents/:id", authRequired, documentHandler.Delete)

	v1.GET("/search", searchHandler.Search)
	v1.GET("/context", searchHandler.Context)
	v1.GET("/stats", documentHandler.Stats)

	return router
}
