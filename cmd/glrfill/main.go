package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"glrfill/internal/cli"
	_ "glrfill/internal/llm/gemini"
	_ "glrfill/internal/llm/openrouter"
)

// Set during build via ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
)

func main() {
	_ = godotenv.Load()
	cli.SetVersionInfo(Version, GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
