// Command server runs the gloss REST API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/heartmarshall/wenyan-gloss/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
