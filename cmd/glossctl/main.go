// Command glossctl builds the gloss corpus offline and maintains a deployment:
//
//	glossctl pipeline [--phase textbook,dataset,...] [--dry-run] [--config pipeline.yaml]
//	glossctl lookup <query> --textbook notes.jsonl [--freq]
//	glossctl export-queries [-o query_notes.jsonl]
//	glossctl top [-n 20]
//	glossctl prefetch [-n 500] [--delay 500ms]
//	glossctl version
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wenyan-gloss/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
