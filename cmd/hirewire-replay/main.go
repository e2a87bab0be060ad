// Package main is the entry point for hirewire-replay, a local event channel
// server that replays a recorded workflow scenario.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hirewire/hirewire/internal/config"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/replay"
)

func main() {
	scenarioPath := flag.String("scenario", "", "Scenario file to replay (required)")
	port := flag.Int("port", 8000, "Port to listen on (0 for dynamic allocation)")
	token := flag.String("token", "", "Credential clients must present (overrides the scenario)")
	path := flag.String("path", "/ws", "HTTP path of the event channel")
	flag.Parse()

	log.SetPrefix("[hirewire-replay] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: hirewire-replay --scenario <file> [--port N] [--token T] [--path /ws]")
		os.Exit(2)
	}

	sc, err := replay.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	running, info, err := config.IsReplayRunning()
	if err != nil {
		log.Fatalf("Failed to check replay status: %v", err)
	}
	if running {
		log.Fatalf("Replay server already running at %s (PID %d)", info.URL(), info.PID)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", *port))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	actualPort := ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle(*path, replay.NewServer(sc, *token))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	replayInfo := models.NewReplayInfo("127.0.0.1", actualPort, *path, os.Getpid(), filepath.Base(*scenarioPath))
	if err := config.SaveReplayInfo(replayInfo); err != nil {
		log.Fatalf("Failed to write replay info: %v", err)
	}

	log.Printf("Replaying %d events (%s) at %s (PID %d)", len(sc.Events), sc.Duration(), replayInfo.URL(), os.Getpid())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Failed to shut down cleanly: %v", err)
	}

	if err := config.RemoveReplayInfo(); err != nil {
		log.Printf("Failed to remove replay info: %v", err)
	}

	fmt.Println("Replay server stopped")
}
