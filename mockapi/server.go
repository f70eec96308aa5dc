// Package mockapi is an in-memory double of the salon backend. The test
// suite mounts it on httptest servers; `salonova serve-mock` runs it for
// local development. It mirrors the real backend's surface: bearer-token
// auth, the list envelope, uniform list query parameters, 403 for any
// session problem and 409 for duplicate names.
package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server hosts the mock state and its router.
type Server struct {
	store  *memStore
	secret []byte
}

// NewServer builds a seeded mock backend signing tokens with secret.
func NewServer(secret string) *Server {
	return &Server{store: seed(), secret: []byte(secret)}
}

// Router assembles the gin engine with the full route surface.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))
	router.Use(rateLimitMiddleware())

	router.POST("/api/login", s.loginHandler)

	api := router.Group("/api")
	api.Use(s.authMiddleware())
	{
		registerResource(api, "categories", s.store.categories)
		registerResource(api, "services", s.store.services)
		registerResource(api, "packages", s.store.packages)
		registerResource(api, "users", s.store.users)
		registerResource(api, "workstations", s.store.workstations)
		registerReadOnly(api, "payments", s.store.payments)
		registerReadOnly(api, "audits", s.store.audits)

		api.GET("/appointments", s.listAppointmentsHandler)
		api.GET("/appointments/mine", s.listMyAppointmentsHandler)
		api.POST("/appointments", s.createAppointmentHandler)
		api.DELETE("/appointments/:id", s.deleteAppointmentHandler)
		api.GET("/appointments/rearrange", s.availabilityHandler)
		api.PATCH("/appointments/rearrange/:id", s.rearrangeHandler)
		api.PATCH("/details/:id", s.updateDetailHandler)
		api.POST("/payments", s.createPaymentHandler)

		api.GET("/statistics/categories", s.statsByCategoryHandler)
		api.GET("/statistics/professionals", s.statsByProfessionalHandler)
		api.GET("/statistics/days", s.statsByDayHandler)
		api.GET("/statistics/payment-methods", s.statsByMethodHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}
