package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/podhealth/pod-api/pkg/server"
	"github.com/podhealth/pod-api/pkg/storage"
)

func main() {
	// Command line flags
	var (
		port           = flag.String("port", "8080", "Server port")
		dataFile       = flag.String("data-file", "pod-api_data"+storage.FileExtension, "Data file path for persistence")
		saveOnWrite    = flag.Bool("save-on-write", false, "Save a snapshot after every write")
		backgroundSave = flag.Duration("background-save", 0, "Background save interval (e.g., 5m, 30s). Set to 0 to disable.")
		showHelp       = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npod-api serves account, profile and record endpoints over an embedded document store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                              # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090                   # Custom port\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -background-save 5m          # Auto-save every 5 minutes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSafety Note:\n")
		fmt.Fprintf(os.Stderr, "  Without -save-on-write or -background-save, data is only saved on graceful shutdown.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Build storage options based on flags
	var storageOptions []storage.StorageOption
	if *saveOnWrite {
		storageOptions = append(storageOptions, storage.WithSaveOnWrite(true))
		log.Printf("INFO: Save-on-write enabled")
	}
	if *backgroundSave > 0 {
		storageOptions = append(storageOptions, storage.WithBackgroundSave(*backgroundSave))
		log.Printf("INFO: Background save enabled: every %v", *backgroundSave)
	} else if !*saveOnWrite {
		log.Printf("WARN: Snapshot saves disabled - data only saved on graceful shutdown")
	}

	srv := server.NewServer(storageOptions...)
	defer srv.StopBackgroundWorkers()

	log.Printf("INFO: Loading data from: %s", *dataFile)
	srv.InitDB(*dataFile)

	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: srv.Router(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting pod-api server on :%s", *port)
		log.Printf("API endpoints available at http://localhost:%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Save store state before shutdown
	log.Printf("INFO: Saving data to: %s", *dataFile)
	srv.SaveDB(*dataFile)

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
