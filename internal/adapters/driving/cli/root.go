// Package cli implements the command-line surface of the wordbook and
// wires the service together from its adapters.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/xuie0000/wordbook/internal/adapters/driven/config/file"
	"github.com/xuie0000/wordbook/internal/adapters/driven/dispatch"
	"github.com/xuie0000/wordbook/internal/adapters/driven/driver"
	"github.com/xuie0000/wordbook/internal/adapters/driven/lockfile"
	"github.com/xuie0000/wordbook/internal/adapters/driven/migrate"
	"github.com/xuie0000/wordbook/internal/adapters/driven/storage/sqlite"
	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
	"github.com/xuie0000/wordbook/internal/core/services"
	"github.com/xuie0000/wordbook/internal/logger"
)

// Defaults for the downloadable driver artifact. The config file can
// override all three (driver.url, driver.sha1, driver.version).
const (
	defaultDriverVersion = "1.4.0"
	defaultDriverURL     = "https://dl.xuie0000.com/wordbook/wordbook-driver-1.4.0.so"
	defaultDriverSHA1    = "8a0f2d7f3c9be1d5a4a14f0e2b6c8d9e1f3a5b7c"
)

// initTimeout bounds how long commands wait for initialization to settle.
const initTimeout = 30 * time.Second

var (
	verboseFlag bool
	dataDirFlag string

	svc      *services.WordbookService
	queue    *dispatch.Serial
	watcher  *driver.Watcher
	artifact string
)

var rootCmd = &cobra.Command{
	Use:   "wordbook",
	Short: "Manage your personal word collection",
	Long: `Wordbook keeps the words you save while translating in a local
SQLite database and notifies observers of every change.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "override the wordbook data directory")
}

// Execute runs the CLI and tears the service down afterwards.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

func shutdown() {
	if watcher != nil {
		watcher.Close()
	}
	if svc != nil {
		svc.Close()
	}
	if queue != nil {
		queue.Close()
	}
}

// buildService assembles the wordbook service from its adapters.
func buildService() (*services.WordbookService, error) {
	cfgStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	dataDir := dataDirFlag
	if dataDir == "" {
		dataDir = cfgStore.GetString("data_dir")
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".wordbook", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	svcCfg := services.Config{
		DataDir:       dataDir,
		DriverURL:     stringOr(cfgStore.GetString("driver.url"), defaultDriverURL),
		DriverSHA1:    stringOr(cfgStore.GetString("driver.sha1"), defaultDriverSHA1),
		DriverVersion: stringOr(cfgStore.GetString("driver.version"), defaultDriverVersion),
	}

	locker := lockfile.New(svcCfg.LockPath())
	driverCfg := driver.Config{
		DataDir: dataDir,
		URL:     svcCfg.DriverURL,
		SHA1:    svcCfg.DriverSHA1,
		Version: svcCfg.DriverVersion,
	}
	queue = dispatch.NewSerial()

	s := services.New(svcCfg, services.Deps{
		Locker:      locker,
		Provisioner: driver.New(driverCfg, locker),
		Dispatcher:  queue,
		Migrator:    migrate.New(svcCfg.DatabasePath(), services.LockFile),
		OpenStore: func(handle driven.DriverHandle) (driven.WordStore, error) {
			return sqlite.NewStore(handle, svcCfg.DatabasePath())
		},
	})

	// A sibling process may install the driver artifact while this one
	// sits in NO_DRIVER; pick that up without a manual retry.
	artifact = driverCfg.ArtifactName()
	if w, err := driver.WatchArtifact(dataDir, artifact, s.NotifyDriverInstalled); err != nil {
		logger.Debug("cli: artifact watcher unavailable: %v", err)
	} else {
		watcher = w
	}

	return s, nil
}

// initializedService builds the service on first use, starts
// initialization and waits for it to settle in a terminal state.
func initializedService() (*services.WordbookService, domain.LifecycleState, error) {
	if svc == nil {
		s, err := buildService()
		if err != nil {
			return nil, domain.Uninitialized, err
		}
		svc = s
	}

	state, err := waitForInit(svc)
	if err != nil {
		return nil, state, err
	}
	return svc, state, nil
}

// runningService is the variant data commands use: anything short of
// RUNNING is an error with an actionable message.
func runningService() (*services.WordbookService, error) {
	s, state, err := initializedService()
	if err != nil {
		return nil, err
	}
	switch state {
	case domain.Running:
		return s, nil
	case domain.NoDriver:
		return nil, fmt.Errorf(`no usable database driver; run "wordbook download-driver"`)
	default:
		return nil, fmt.Errorf("wordbook failed to initialize (state %s)", state)
	}
}

// waitForInit kicks off AsyncInit and blocks until the lifecycle reaches a
// terminal state or the timeout elapses.
func waitForInit(s *services.WordbookService) (domain.LifecycleState, error) {
	changed := make(chan struct{}, 1)
	cancel := s.ObserveState(func(_, _ domain.LifecycleState) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	s.AsyncInit()

	deadline := time.After(initTimeout)
	for {
		switch state := s.State(); state {
		case domain.Running, domain.NoDriver, domain.InitializationError:
			return state, nil
		}
		select {
		case <-changed:
		case <-deadline:
			return s.State(), fmt.Errorf("timed out waiting for initialization")
		}
	}
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
