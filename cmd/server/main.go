// Command server runs the travel diary HTTP API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/wanderlog/traveldiary-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
