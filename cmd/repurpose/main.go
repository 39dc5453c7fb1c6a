package main

import (
	"repurpose/cmd/cmd"
	"repurpose/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
