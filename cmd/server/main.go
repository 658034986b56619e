package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"dinefind/internal/cache"
	"dinefind/internal/config"
	"dinefind/internal/database"
	"dinefind/internal/feed"
	"dinefind/internal/handler"
	"dinefind/internal/queue"
	"dinefind/internal/repository"
	"dinefind/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: listing cache, rate limiting and watch endpoints are disabled")
	}

	restaurants := repository.NewRestaurantRepo(db)
	reviews := repository.NewReviewRepo(db)
	listings := cache.NewListings(rdb, cfg.CacheTTL)
	changeFeed := feed.New(rdb, restaurants)

	// Background consumer appending submitted reviews to logs/reviews.log.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewRestaurantHandler(restaurants, listings, changeFeed),
		handler.NewReviewHandler(reviews, restaurants, listings, changeFeed),
		handler.NewWatchHandler(changeFeed),
		rdb,
		config.LoadRateLimitConfig(),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
