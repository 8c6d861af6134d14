package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/sendry-io/sendry-server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sendry-io/sendry-server/internal/api/handlers"
	"github.com/sendry-io/sendry-server/internal/api/middleware"
	"github.com/sendry-io/sendry-server/internal/config"
	"github.com/sendry-io/sendry-server/internal/service"
	"github.com/rs/cors"
)

func SetupRouter(svc *service.Service) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	transfers := handlers.NewTransferHandler(svc)
	share := handlers.NewShareHandler(svc)
	download := handlers.NewDownloadHandler(svc)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("/sign-up", handlers.RegisterUser)
	authMux.HandleFunc("/login", handlers.LoginUser)
	authMux.HandleFunc("/google/login", handlers.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", handlers.HandleGoogleCallback)

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// Share-link resolution and downloads are deliberately unauthenticated;
	// recipients never log in. Signed URLs gate the actual bytes.
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /t/{shortCode}/meta", share.Meta)
	publicMux.HandleFunc("POST /t/{shortCode}/access", share.RequestAccess)
	publicMux.HandleFunc("GET /t/{shortCode}/bundle", share.Bundle)
	publicMux.HandleFunc("GET /download/{fileID}", download.Download)

	mainMux.Handle("/api/v1/t/",
		http.StripPrefix("/api/v1", publicMux),
	)
	mainMux.Handle("/api/v1/download/",
		http.StripPrefix("/api/v1", publicMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("POST /transfers", transfers.Create)
	protectedMux.HandleFunc("GET /transfers/mine", transfers.ListMine)
	protectedMux.HandleFunc("DELETE /transfers/{id}", transfers.Delete)

	protectedMux.HandleFunc("/auth/logout", handlers.Logout)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
