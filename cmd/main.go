// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting SoilSage Server v%s", nuts.GetVersion())

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

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"   _____       _ _______                 ",
		"  / ___/____  (_) / ___/____ _____ ____  ",
		"  \\__ \\/ __ \\/ / /\\__ \\/ __ `/ __ `/ _ \\ ",
		" ___/ / /_/ / / /___/ / /_/ / /_/ /  __/ ",
		"/____/\\____/_/_//____/\\__,_/\\__, /\\___/  ",
		"                           /____/        ",
		".........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
