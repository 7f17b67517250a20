package main

import (
	"context"
	"log"
	"time"

	"github.com/Realquiid/vendopage/internal/app"
	"github.com/Realquiid/vendopage/internal/app/config"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg := config.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application terminated: %v", err)
	}
}
