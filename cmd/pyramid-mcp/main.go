package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/janpfeifer/GoPyramid/internal/config"
	"github.com/janpfeifer/GoPyramid/internal/deckapi"
	pyramidmcp "github.com/janpfeifer/GoPyramid/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"k8s.io/klog/v2"
)

func main() {
	deckAPI := flag.String("deck-api", "", "Root URL of the deck service (default: PYRAMID_DECK_API_URL, or "+deckapi.DefaultBaseURL+")")
	offline := flag.Bool("offline", false, "Deal from an in-process deck service instead of a remote one")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout of each deck service request")
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	// Stdout carries the MCP protocol: logs go to stderr only.
	klog.SetOutput(os.Stderr)

	config.LoadDotEnv()
	baseURL := *deckAPI
	if baseURL == "" {
		baseURL = os.Getenv(config.EnvDeckAPIURL)
	}
	if baseURL == "" {
		baseURL = deckapi.DefaultBaseURL
	}
	if *offline {
		listener, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		go func() {
			if err := http.Serve(listener, deckapi.NewLocalService()); err != nil {
				klog.Errorf("Local deck service stopped: %v", err)
			}
		}()
		baseURL = "http://" + listener.Addr().String()
	}
	klog.Infof("Dealing from %s", baseURL)

	s := server.NewMCPServer("pyramid", "1.0.0")
	pyramidmcp.NewTools(deckapi.NewClient(baseURL, *timeout)).Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
