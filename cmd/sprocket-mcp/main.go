package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/sprocket-tools-mcp/internal/server"
	"github.com/ironsheep/sprocket-tools-mcp/internal/sprocket"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sprocket-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("sprocket-tools-mcp - MCP server for sprocket-based film frame registration")
			fmt.Println()
			fmt.Println("Usage: sprocket-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v          Print version information")
			fmt.Println("  --help, -h             Print this help message")
			fmt.Println("  --print-config         Print the effective detection config as JSON")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SPROCKET_MCP_LOG_LEVEL=debug       Enable debug logging")
			fmt.Println("  SPROCKET_MCP_CONFIG=/path/cfg.json  Default detection settings")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("SPROCKET_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Sprocket MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := sprocket.DefaultConfig()
	if path := os.Getenv("SPROCKET_MCP_CONFIG"); path != "" {
		loaded, err := sprocket.LoadConfigFile(path)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = loaded
		if debug {
			log.Printf("Loaded detection config from %s", path)
		}
	}

	if len(os.Args) > 1 && os.Args[1] == "--print-config" {
		if err := sprocket.WriteConfig(os.Stdout, cfg); err != nil {
			log.Fatalf("Config error: %v", err)
		}
		return
	}

	srv := server.NewWithOptions(server.Options{
		Defaults: cfg,
		Version:  Version,
		Debug:    debug,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
