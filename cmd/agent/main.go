package main

import (
	"context"
	"log"

	"github.com/openfield/fieldsync/internal/agent"
	"github.com/openfield/fieldsync/internal/agent/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := agent.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.RunPass(ctx); err != nil {
		log.Printf("%v", err)
	}

}
