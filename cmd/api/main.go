package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aij-connect/internal/adapters/advisor/crewhttp"
	"aij-connect/internal/adapters/knowledge/raghttp"
	"aij-connect/internal/adapters/storage/postgres"
	"aij-connect/internal/config"
	"aij-connect/internal/platform/logger"
	"aij-connect/internal/ports/advisor"
	"aij-connect/internal/ports/knowledge"
	"aij-connect/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "aij-connect",
	})

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("no se pudo abrir postgres", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
	}

	var adv advisor.Advisor
	advCfg := crewhttp.Config{BaseURL: cfg.AdvisorURL, APIKey: cfg.AdvisorAPIKey}
	if advCfg.IsConfigured() {
		adv, err = crewhttp.New(advCfg)
		if err != nil {
			log.Error("config del agente de validación inválida", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	} else {
		log.Warn("agente de validación no configurado, dictámenes en modo Offline", nil)
	}

	var know knowledge.Loader
	ragCfg := raghttp.Config{BaseURL: cfg.RAGURL}
	if ragCfg.IsConfigured() {
		know, err = raghttp.NewLoader(ragCfg)
		if err != nil {
			log.Error("config del motor de conocimiento inválida", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	} else {
		log.Warn("motor de conocimiento no configurado, chatbot sin respuestas generales", nil)
	}

	if cfg.AuthSecret == "" && !cfg.IsDev() {
		log.Warn("AUTH_SECRET vacío fuera de development: auth en modo debug", nil)
	}

	r := router.NewRouter(router.Options{
		Logger:       log,
		AuthSecret:   cfg.AuthSecret,
		AuthUsername: cfg.AuthUsername,
		AuthPassword: cfg.AuthPassword,
		DB:           db,
		SQLitePath:   cfg.SQLitePath,
		Advisor:      adv,
		Knowledge:    know,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}
