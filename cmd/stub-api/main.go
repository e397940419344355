package main

import (
	"net/http"
	"os"
	"time"

	"github.com/dstore/storefront/internal/auth"
	"github.com/dstore/storefront/internal/stub"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	addr := getEnv("STUB_API_ADDR", ":8080")
	secret := getEnv("STUB_JWT_SECRET", "dev-secret-not-for-production-use")

	issuer := auth.NewIssuer(secret, 24*time.Hour)
	server := stub.NewServer(issuer)

	router := server.Router()

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check for load balancers / compose files
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	log.WithField("addr", addr).Info("Stub Catalog & Order Service starting")
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
