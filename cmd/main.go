package main

import (
	"waste-auction-api/app"

	"github.com/joho/godotenv"
)

func main() {
	// Best effort: environments without a .env file rely on real env vars.
	_ = godotenv.Load()

	app.Run()
}
