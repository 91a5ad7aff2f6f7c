package main

import (
	"errors"
	"net/http"
	"time"

	"survey-collector/app"
	"survey-collector/config"
	"survey-collector/database"
	"survey-collector/log"
	"survey-collector/routes"
	"survey-collector/store"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	application, err := app.New(store.New(db), cfg)
	if err != nil {
		log.Fatal("main.app:", err)
	}

	handler := routes.Wire(application)

	printBanner(cfg)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func printBanner(cfg config.Config) {
	localURL := cfg.LocalURL()
	lanURL := cfg.LanURL()

	log.Info("============================================================")
	log.Info("Local access:")
	log.Infof("  survey:  %s", localURL)
	log.Infof("  qrcode:  %s/qrcode", localURL)
	log.Info("LAN access (same network required):")
	log.Infof("  survey:  %s", lanURL)
	log.Infof("  qrcode:  %s/qrcode", lanURL)
	log.Info("============================================================")
	log.Infof("debug mode: %v", cfg.Debug)
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Addr)
	return srv.ListenAndServe()
}
