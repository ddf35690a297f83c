// Command iconsprite builds icon files and an icon font from an SVG sprite sheet.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jphsd/iconsprite/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		output.Error("iconsprite failed", "err", err)
		os.Exit(1)
	}
}
