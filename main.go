package main

import (
	"os"

	"slotswap-api/core/logger"
	"slotswap-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("Main:Run:Error", err)
		os.Exit(1)
	}
}
