package main

import (
	"github.com/gambit-gg/gambit/internal/app/server"
	"github.com/gambit-gg/gambit/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	logging.Fatal("Game server exited: ", zap.Error(
		server.NewServer().Start(),
	))
}
