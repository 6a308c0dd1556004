package main

import (
	"github.com/joho/godotenv"

	"github.com/pgschema/sqltables/cmd"
)

func main() {
	loadDotEnv()
	cmd.Execute()
}

// loadDotEnv reads .env from the working directory if there is one.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}
