// FilePath: cmd/hub/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

// @title Health Export API
// @version 1.0
// @description Receives sleep, exercise and blood glucose exports and stores them idempotently.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting Health Hub Server v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    __  __           ____  __    __  __      __  ",
		"   / / / /__  ____ _/ / /_/ /_  / / / /_  __/ /_ ",
		"  / /_/ / _ \\/ __ `/ / __/ __ \\/ /_/ / / / / __ \\",
		" / __  /  __/ /_/ / / /_/ / / / __  / /_/ / /_/ /",
		"/_/ /_/\\___/\\__,_/_/\\__/_/ /_/_/ /_/\\__,_/_.___/ ",
		"..................................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
