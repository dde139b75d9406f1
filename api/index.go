package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"grocery-store/config"
	"grocery-store/libs"
	"grocery-store/models"
	"grocery-store/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		libs.InitLogger(cfg.AppEnv)

		// Connections live for the lifetime of the serverless instance.
		router, _, initErr = routes.Build(cfg)
		if initErr != nil {
			log.Error().Err(initErr).Msg("failed to initialize application")
		}
	})
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Message: "Service unavailable",
		})
		return
	}
	router.ServeHTTP(w, r)
}
