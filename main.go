package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"landing-waitlist/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	cmd.Execute()
}
