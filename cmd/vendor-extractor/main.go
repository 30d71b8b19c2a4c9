package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/di"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/runner"
	"go.uber.org/zap"
)

var (
	resetMailbox = flag.String("reset-mailbox", "", "Clear the sync watermark for one mailbox and exit")
	resetAll     = flag.Bool("reset-all", false, "Clear every sync watermark and exit")
)

func main() {
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if *resetMailbox != "" || *resetAll {
		if err := container.Invoke(reset); err != nil {
			fmt.Printf("Reset failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// reset clears sync watermarks so the next run rescans from the beginning
func reset(logger *zap.Logger, watermarks core.WatermarkStore) error {
	defer logger.Sync()
	ctx := context.Background()

	if *resetAll {
		if err := watermarks.ResetAll(ctx); err != nil {
			return err
		}
		logger.Info("Cleared all sync watermarks")
	} else {
		if err := watermarks.Reset(ctx, *resetMailbox); err != nil {
			return err
		}
		logger.Info("Cleared sync watermark", zap.String("mailbox", *resetMailbox))
	}

	if stopper, ok := watermarks.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	return nil
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	service *runner.Service,
	watermarks core.WatermarkStore,
) error {
	defer logger.Sync()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := service.Run(ctx)

	// Close any resources that need closing
	if stopper, ok := watermarks.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if result.Status == core.RunFailed {
		return fmt.Errorf("extraction run failed across all mailboxes")
	}
	logger.Info("Done", zap.String("status", string(result.Status)))
	return nil
}
