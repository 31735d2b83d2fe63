package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/CisoUnlimited/Super-Chat/internal/api"
	"github.com/CisoUnlimited/Super-Chat/internal/archive"
	"github.com/CisoUnlimited/Super-Chat/internal/config"
	"github.com/CisoUnlimited/Super-Chat/internal/registry"
	"github.com/CisoUnlimited/Super-Chat/internal/session"
	"github.com/CisoUnlimited/Super-Chat/internal/transport"
)

func main() {
	config.Init()
	serverConfig := config.Server()
	httpConfig := config.HTTP()
	registryConfig := config.Registry()
	archiveConfig := config.Archive()

	recorder := buildRecorder(archiveConfig)
	reg := registry.New(registryConfig.DefaultRooms...)

	var sessions sync.WaitGroup
	connect := func(conn transport.LineConn) {
		sessions.Add(1)
		defer sessions.Done()
		session.New(conn, reg, recorder).Run()
	}

	listener, err := net.Listen("tcp", serverConfig.Port)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", serverConfig.Port, err)
	}

	httpServer := &http.Server{
		Addr:    httpConfig.Addr,
		Handler: api.NewRouter(reg, connect),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		listener.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}()

	log.Printf("Chat server listening on %s (HTTP on %s)", serverConfig.Port, httpConfig.Addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			log.Printf("Accept error: %v", err)
			continue
		}
		go connect(transport.NewNetLineConn(conn))
	}

	log.Println("Listener closed, waiting for sessions to finish")
	if !waitWithTimeout(&sessions, 5*time.Second) {
		log.Println("Session shutdown timeout reached, some sessions may still be running")
	}
}

// waitWithTimeout waits for the group and reports whether it finished
// within the budget.
func waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// buildRecorder wires the transcript sinks enabled by configuration. A
// broken file sink downgrades to whatever else is configured rather than
// refusing to start.
func buildRecorder(cfg *config.ArchiveConfig) archive.Recorder {
	var recorders []archive.Recorder

	if cfg.LogPath != "" {
		fileRecorder, err := archive.NewFileRecorder(cfg.LogPath)
		if err != nil {
			log.Printf("Transcript file disabled: %v", err)
		} else {
			recorders = append(recorders, fileRecorder)
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		recorders = append(recorders, archive.NewKafkaRecorder(cfg.KafkaBrokers, cfg.KafkaTopic))
	}

	switch len(recorders) {
	case 0:
		return archive.Nop{}
	case 1:
		return recorders[0]
	default:
		return archive.Multi(recorders...)
	}
}
