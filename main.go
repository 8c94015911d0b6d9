package main

import (
	"github.com/joho/godotenv"
	"github.com/user/bugbounty-agent/cmd"
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	cmd.Execute()
}
