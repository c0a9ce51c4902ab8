package main

import (
	"github.com/joho/godotenv"

	"github.com/openmuse/muse/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
