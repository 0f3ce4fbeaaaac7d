// Package main implements the entry point and startup checks for lapse.
//
// This package handles:
//   - Single instance checking to prevent concurrent viewers
//   - Dependency validation (ffmpeg for video frame extraction)
//   - Configuration and log setup
//   - Signal handling for clean shutdown
//   - TUI initialization and execution
package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"lapse/internal"
	"lapse/internal/cache"
	"lapse/internal/framedb"
	"lapse/internal/log"
	"lapse/internal/storage"
	"lapse/internal/watch"
)

// lockFilePath defines the location of the singleton instance lock file.
// Two viewers scrubbing the same cache directory would race each other's
// invalidations.
const lockFilePath = "/tmp/lapse.lock"

// checkSingleInstance verifies that no other lapse process is currently
// running. Stale lock files are cleaned up if the recorded PID is gone.
func checkSingleInstance() error {
	if _, err := os.Stat(lockFilePath); err == nil {
		lockContent, readErr := os.ReadFile(lockFilePath)
		if readErr == nil {
			pid := strings.TrimSpace(string(lockContent))
			if pidInt, err := strconv.Atoi(pid); err == nil {
				if process, err := os.FindProcess(pidInt); err == nil {
					// Signal 0 checks existence without touching the process
					if err := process.Signal(syscall.Signal(0)); err == nil {
						return fmt.Errorf("another lapse process is already running (PID: %s)", pid)
					}
				}
			}
		}
		os.Remove(lockFilePath)
	}
	return nil
}

// createInstanceLock creates a lock file containing the current process ID.
func createInstanceLock() error {
	pid := fmt.Sprintf("%d", os.Getpid())
	return os.WriteFile(lockFilePath, []byte(pid), 0o644)
}

// removeInstanceLock deletes the singleton lock file to allow new instances.
func removeInstanceLock() {
	os.Remove(lockFilePath)
}

// checkDependencies validates the external programs lapse shells out to.
// Only ffmpeg is needed, and only for the videos view.
func checkDependencies(ffmpegPath string) error {
	bin := ffmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s not found in PATH (needed for video frame extraction)", bin)
	}
	return nil
}

func main() {
	if err := checkSingleInstance(); err != nil {
		fmt.Println("⚠️  " + err.Error())
		fmt.Println("💡 If you're sure no other lapse is running, remove " + lockFilePath)
		os.Exit(1)
	}

	if err := createInstanceLock(); err != nil {
		fmt.Printf("❌ Failed to create instance lock: %v\n", err)
		os.Exit(1)
	}
	defer removeInstanceLock()

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Printf("⚠️  Config problem, using defaults: %v\n", err)
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Path: internal.LogFilePath()})
	logger := log.With("main")

	if err := checkDependencies(cfg.FFmpegPath); err != nil {
		fmt.Printf("❌ Dependency check failed: %v\n", err)
		os.Exit(1)
	}

	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		fmt.Printf("❌ Timelapse archive not found at %s\n", cfg.Root)
		fmt.Println("💡 Set \"root\" in ~/.config/lapse/config.json to your archive directory.")
		os.Exit(1)
	}

	store := storage.NewDirStore(cfg.Root)
	extractor := cache.NewFFmpegExtractor(cfg.Root, cfg.FFmpegPath)

	// The capture process may not have created its database yet; the
	// capture-time readout simply stays blank until it exists.
	meta, err := framedb.Open(cfg.Root)
	if err != nil {
		logger.Warn().Err(err).Msg("screenshot database unavailable")
		meta = nil
	}

	watcher, err := watch.New(cfg.Root)
	if err != nil {
		logger.Warn().Err(err).Msg("archive watching disabled")
		watcher = nil
	}

	// Clean up the lock on signals; the TUI handles ctrl+c itself.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		removeInstanceLock()
		os.Exit(1)
	}()

	logger.Info().Str("root", cfg.Root).Msg("starting " + internal.GetVersionString())

	m := internal.NewModel(cfg, store, extractor, meta, watcher)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		removeInstanceLock()
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if fm, ok := final.(internal.Model); ok {
		fm.Teardown()
	}
}
