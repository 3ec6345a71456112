package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/woomsg/woomsg/internal/auth"
	"github.com/woomsg/woomsg/internal/config"
	"github.com/woomsg/woomsg/internal/handlers"
	"github.com/woomsg/woomsg/internal/importer"
	"github.com/woomsg/woomsg/internal/logger"
	"github.com/woomsg/woomsg/internal/middleware"
	"github.com/woomsg/woomsg/internal/service"
	"github.com/woomsg/woomsg/internal/store/sqlstore"
)

var (
	initSchema = flag.Bool("init", false, "drop and recreate the database schema (destroys existing data)")
	importCSV  = flag.String("import", "", "bulk-import a CSV file before serving")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.App.LogFilePath, cfg.IsProduction())
	defer log.Sync()

	st, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer st.Close()

	if *initSchema {
		if err := st.InitSchema(); err != nil {
			log.Fatal("init schema", zap.Error(err))
		}
		log.Info("schema recreated")
	}

	svc := service.New(st, log, cfg.Auth.BcryptCost)

	if *importCSV != "" {
		if err := importer.New(svc, log).ImportFile(*importCSV); err != nil {
			log.Fatal("csv import", zap.Error(err))
		}
	}

	signer := auth.NewCookieSigner(cfg.Auth.CookieSecret)
	validate := validator.New()

	authHandler := &handlers.AuthHandler{Service: svc, Signer: signer, Validate: validate}
	chatHandler := &handlers.ChatHandler{Service: svc, Validate: validate}
	apiHandler := &handlers.APIHandler{Store: st}

	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	r.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(middleware.Auth(signer))
	authed.HandleFunc("/users/me", authHandler.UpdateName).Methods("PATCH")
	authed.HandleFunc("/chats", chatHandler.CreateChatRoom).Methods("POST")
	authed.HandleFunc("/chats", chatHandler.GetChats).Methods("GET")
	authed.HandleFunc("/chats/{id}", chatHandler.GetRoomInfo).Methods("GET")
	authed.HandleFunc("/chats/{id}", chatHandler.UpdateChatTitle).Methods("PATCH")
	authed.HandleFunc("/chats/{id}/messages", chatHandler.GetChatMessages).Methods("GET")
	authed.HandleFunc("/chats/{id}/messages", chatHandler.PostMessage).Methods("POST")
	authed.HandleFunc("/chats/{id}/participants", chatHandler.GetChatParticipants).Methods("GET")
	authed.HandleFunc("/chats/{id}/participants/{username}", chatHandler.RemoveParticipant).Methods("DELETE")
	authed.HandleFunc("/messages/{id}", chatHandler.UpdateMessage).Methods("PATCH")

	// Raw table access, mirroring the generic storage primitives.
	authed.HandleFunc("/api/{table}", apiHandler.GetAll).Methods("GET")
	authed.HandleFunc("/api/{table}/{id}", apiHandler.GetByID).Methods("GET")
	authed.HandleFunc("/api/{table}/{id}", apiHandler.DeleteByID).Methods("DELETE")

	log.Info("starting server", zap.String("addr", cfg.App.Addr))
	if err := http.ListenAndServe(cfg.App.Addr, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func loggingMiddleware(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
