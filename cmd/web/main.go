package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"formlab/internal/app"
	"formlab/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; deployments set real env vars.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	dbConn, err := db.Open(context.Background(), cfg.DBDSN, db.PoolLimits{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		log.Printf("database error: %v", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.EnsureSchema(context.Background(), dbConn); err != nil {
		log.Printf("schema error: %v", err)
		os.Exit(1)
	}

	r := app.NewRouter(cfg, dbConn)

	log.Printf("formlab web listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
