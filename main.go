package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"particlefield/internal/observability"
)

func main() {
	if err := newApp().command().Execute(); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	observability.Sync()
}
