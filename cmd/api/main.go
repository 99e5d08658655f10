package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"khedma/internal/config"
	"khedma/internal/database"
	"khedma/internal/middleware"
	"khedma/internal/modules/actor"
	"khedma/internal/modules/booking"
	"khedma/internal/modules/message"
	"khedma/internal/modules/notification"
	"khedma/internal/modules/payment"
	"khedma/internal/modules/ranking"
	"khedma/internal/modules/wallet"
	jwtsvc "khedma/internal/pkg/jwt"
	"khedma/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	actorRepo := repository.NewActorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService, hub)

	paymentService := payment.NewService(instrumentRepo)
	paymentHandler := payment.NewHandler(paymentService)

	bookingService := booking.NewService(db, actorRepo, bookingRepo, notificationRepo, paymentService, notificationService)
	bookingHandler := booking.NewHandler(bookingService)

	walletService := wallet.NewService(actorRepo, bookingRepo)
	walletHandler := wallet.NewHandler(walletService)

	rankingService := ranking.NewService(bookingRepo)
	rankingHandler := ranking.NewHandler(rankingService)

	messageService := message.NewService(db, actorRepo, messageRepo, notificationRepo)
	messageHandler := message.NewHandler(messageService)

	actorService := actor.NewService(actorRepo, bookingRepo)
	actorHandler := actor.NewHandler(actorService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			actorHandler.RegisterRoutes(protected)
			rankingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			messageHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)

			clientOnly := protected.Group("/")
			clientOnly.Use(middleware.ClientOnly())
			bookingHandler.RegisterRoutes(clientOnly, protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
