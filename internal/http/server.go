package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"
)

// NewServer wraps e with CORS handling for allowedOrigins.
func NewServer(addr string, e *echo.Echo, allowedOrigins []string) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:              addr,
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
