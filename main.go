package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{fs: afero.NewOsFs(), log: logrus.New()}
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		a.log.WithError(err).Error("spons failed")
		stop()
		os.Exit(1)
	}
}
