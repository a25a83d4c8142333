package main

import (
	"context"
	"net/http"

	"placemark-api/internal/cache"
	"placemark-api/internal/config"
	"placemark-api/internal/handler"
	"placemark-api/internal/location"
	"placemark-api/internal/repository"
	"placemark-api/internal/service"
	"placemark-api/internal/store"

	_ "placemark-api/docs"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Placemark API
//	@version		1.0
//	@description	Place, marker and add-place session API.

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if level, err := zerolog.ParseLevel(config.LogLevel); err == nil && config.LogLevel != "" {
		zerolog.SetGlobalLevel(level)
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	geocodeCache, err := cache.Open(config.GeocodeCachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open geocode cache")
	}
	defer geocodeCache.Close()
	if err := geocodeCache.Init(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot initialize geocode cache")
	}

	// Device position feed; without a broker only client-reported
	// positions are available.
	provider := location.New()
	if config.MQTTBroker != "" {
		if err := provider.Connect(context.Background(), config.MQTTBroker, config.MQTTClientID, config.MQTTTopic); err != nil {
			log.Fatal().Err(err).Msg("cannot connect to mqtt broker")
		}
		defer provider.Close()
	}

	// Initialize layers
	repo := repository.NewRepository(conn)

	geocodeService := service.NewGeocodeService(repo, geocodeCache)
	resolver := service.NewGeoResolver(geocodeService, provider, config.FallbackRegion())

	places := store.New()
	places.Seed(store.DefaultPlaces())

	sessions := service.NewSessions(resolver, provider, places)
	captureFlow := service.NewCaptureFlow(nil, provider, places, config.CaptureTitle, config.FallbackRegion())

	geocodeHandler := handler.NewGeocodeHandler(geocodeService)
	placesHandler := handler.NewPlacesHandler(places)
	markersHandler := handler.NewMarkersHandler(places, provider)
	sessionsHandler := handler.NewSessionsHandler(sessions)
	capturesHandler := handler.NewCapturesHandler(captureFlow)
	positionHandler := handler.NewPositionHandler(provider)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/geocode", geocodeHandler.Geocode)

	r.GET("/places", placesHandler.List)
	r.GET("/places/:id", placesHandler.Detail)

	r.GET("/markers", markersHandler.List)
	r.GET("/markers/stream", markersHandler.Stream)

	r.POST("/sessions", sessionsHandler.Start)
	r.GET("/sessions/:id", sessionsHandler.Show)
	r.PUT("/sessions/:id/draft", sessionsHandler.UpdateDraft)
	r.POST("/sessions/:id/photos", sessionsHandler.AttachPhotos)
	r.POST("/sessions/:id/camera", sessionsHandler.AttachCamera)
	r.POST("/sessions/:id/pick", sessionsHandler.BeginPick)
	r.POST("/sessions/:id/tap", sessionsHandler.Tap)
	r.DELETE("/sessions/:id/pick", sessionsHandler.CancelPick)
	r.POST("/sessions/:id/commit", sessionsHandler.Commit)
	r.DELETE("/sessions/:id", sessionsHandler.End)

	r.POST("/captures", capturesHandler.Ingest)
	r.POST("/position", positionHandler.Report)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Run(config.ServerAddress)
}
