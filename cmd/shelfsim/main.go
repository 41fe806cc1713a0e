package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	shelfsimcmd "github.com/louisbranch/shelfsim/internal/cmd/shelfsim"
)

func main() {
	cfg, err := shelfsimcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SHELFSIM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := shelfsimcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}
