package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/ickb-go/ickb-validator/internal/config"
	"github.com/ickb-go/ickb-validator/internal/logging"
	"github.com/ickb-go/ickb-validator/internal/storage"
	"github.com/ickb-go/ickb-validator/internal/validate"
	"github.com/ickb-go/ickb-validator/internal/version"

	_ "go.uber.org/automaxprocs"
)

const (
	programName = "ickb-validator"
)

var cmdlineFlags struct {
	configFile string
	txFile     string
	version    bool
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.StringVar(&cmdlineFlags.txFile, "tx", "", "path to a JSON transaction fixture to validate")
	flag.BoolVar(&cmdlineFlags.version, "version", false, "show version")
	flag.Parse()

	if cmdlineFlags.version {
		fmt.Printf("%s %s\n", programName, version.GetVersionString())
		os.Exit(0)
	}

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Configure()
	logger := logging.GetLogger()
	// Sync logger on exit
	defer func() {
		if err := logger.Sync(); err != nil {
			// We don't actually care about the error here, but we have to do something
			// to appease the linter
			return
		}
	}()

	// Start the accumulated-rate cache
	if err := storage.GetStorage().Load(); err != nil {
		logger.Fatalf("failed to open storage: %s", err)
	}

	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		logger.Infof("starting debug listener on %s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort)
		go func() {
			err := http.ListenAndServe(fmt.Sprintf("%s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort), nil)
			if err != nil {
				logger.Fatalf("failed to start debug listener: %s", err)
			}
		}()
	}

	if cmdlineFlags.txFile == "" {
		fmt.Println("ERROR: you must specify a transaction fixture with -tx")
		os.Exit(1)
	}

	tx, err := validate.LoadFixture(cmdlineFlags.txFile)
	if err != nil {
		logger.Fatalf("failed to load transaction fixture: %s", err)
	}
	if err := validate.Run(tx); err != nil {
		logger.Errorf("transaction rejected: %s", err)
		os.Exit(1)
	}
	logger.Infof("transaction accepted")
}
