// main.go
// Application entry point: loads configuration, initializes the logger and starts the server.
package main

import (
	"fmt"
	"os"

	"github.com/bookmanager/internal/api"
	"github.com/bookmanager/internal/logger"
	"github.com/bookmanager/internal/util"
)

func main() {
	config, err := util.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(config.Log)
	serverLogger := logger.NewLogger("server")
	serverLogger.WithFields(map[string]interface{}{
		"level":       config.Log.Level,
		"log_to_file": config.Log.LogToFile,
		"log_to_json": config.Log.LogToJSON,
		"addr":        config.Addr,
		"storage":     config.DatabasePath,
	}).Info("Configuration loaded")

	if err := api.StartServer(config, serverLogger); err != nil {
		serverLogger.Fatalf("Server stopped: %v", err)
	}
}
