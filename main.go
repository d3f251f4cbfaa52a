package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("nutrition-tracker-api: ")
	log.SetFlags(0)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	pool := getDBPool(cfg.DBURL)
	defer pool.Close()

	h := &Handler{
		store:         &pgStore{db: pool},
		openAIBaseURL: cfg.OpenAIBaseURL,
		openAIKey:     cfg.OpenAIKey,
	}
	if cfg.RedisURL != "" {
		cache, err := newRedisFoodCache(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Printf("[main] food search cache disabled: %v", err)
		} else {
			defer cache.Close()
			h.foodCache = cache
		}
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	// The mobile app's web build calls the API cross-origin.
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	fmt.Println("Starting gin app on :" + cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, c.Handler(router)); err != nil {
		log.Fatal(err)
	}
}
