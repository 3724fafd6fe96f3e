package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"yt-transcript-harvester/internal/cli"
)

func main() {
	// Optional .env with YTH_* overrides; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
