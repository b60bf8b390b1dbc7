package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dkarklins/jobfolio/internal/client/cli"
	"github.com/dkarklins/jobfolio/internal/client/config"
)

func main() {

	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
