package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinemind/config"
	"cinemind/handlers"
	"cinemind/services/catalog"
	"cinemind/services/metadata"
	"cinemind/services/suggest"
	"cinemind/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}))
	}

	generator := suggest.NewGenerator(suggest.NewClient(nil), cfg.GeminiModels)
	resolver := metadata.NewResolver(nil)
	cache := catalog.NewCache(cfg.CacheTTL)
	svc := catalog.NewService(generator, resolver, cache)

	router := utils.NewRouter()
	handlers.NewAddonHandler(svc).Register(router)

	addr := ":" + cfg.Port
	log.Printf("[main] cinemind listening on %s (cache ttl %s, %d models in pool)",
		addr, cfg.CacheTTL, len(cfg.GeminiModels))

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
