// Package main provides the TrackerSync command line: log in to a reading-list tracker,
// search its catalog and read or update list entries.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/router-for-me/TrackerSync/internal/auth/myanimelist"
	"github.com/router-for-me/TrackerSync/internal/buildinfo"
	"github.com/router-for-me/TrackerSync/internal/cmd"
	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/internal/logging"
	"github.com/router-for-me/TrackerSync/internal/util"
	sdkAuth "github.com/router-for-me/TrackerSync/sdk/auth"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
	log "github.com/sirupsen/logrus"
)

var (
	Version           = "dev"
	Commit            = "none"
	BuildDate         = "unknown"
	DefaultConfigPath = ""
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	var login bool
	var logout bool
	var refresh bool
	var noBrowser bool
	var showVersion bool
	var searchQuery string
	var statusIDs string
	var updateID int64
	var setStatus string
	var progress int
	var score int
	var trackerName string
	var configPath string

	flag.BoolVar(&login, "login", false, "Log in to the tracker using OAuth")
	flag.BoolVar(&logout, "logout", false, "Remove the stored tracker credential")
	flag.BoolVar(&refresh, "refresh", false, "Refresh the stored tracker credential")
	flag.BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically for OAuth")
	flag.BoolVar(&showVersion, "version", false, "Print version information and exit")
	flag.StringVar(&searchQuery, "search", "", "Search the tracker catalog by title")
	flag.StringVar(&statusIDs, "status", "", "Show list status for comma separated catalog ids")
	flag.Int64Var(&updateID, "update", 0, "Update the list status of a catalog id")
	flag.StringVar(&setStatus, "set-status", "", "New list status for -update (reading, completed, on_hold, dropped, plan_to_read)")
	flag.IntVar(&progress, "progress", -1, "Chapters read for -update (default keeps the current value)")
	flag.IntVar(&score, "score", -1, "Score 0-10 for -update (default keeps the current value)")
	flag.StringVar(&trackerName, "tracker", tracker.MyAnimeListName, "Tracker to use ("+strings.Join(tracker.Names(), ", ")+")")
	flag.StringVar(&configPath, "config", DefaultConfigPath, "Configure File Path")
	flag.Parse()

	if showVersion {
		fmt.Printf("TrackerSync Version: %s, Commit: %s, BuiltAt: %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Errorf("failed to get working directory: %v", err)
		os.Exit(1)
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	if configPath == "" {
		configPath = filepath.Join(wd, "config.yaml")
	}
	cfg, err := config.LoadConfigOptional(configPath, true)
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Errorf("failed to configure log output: %v", err)
		os.Exit(1)
	}
	util.SetLogLevel(cfg)

	authDir, err := util.ResolveAuthDir(cfg.AuthDir)
	if err != nil {
		log.Errorf("failed to resolve auth directory: %v", err)
		os.Exit(1)
	}
	sdkAuth.RegisterCredentialStore(sdkAuth.NewFileCredentialStore(authDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := &cmd.Options{
		Tracker:   trackerName,
		NoBrowser: noBrowser,
	}

	switch {
	case login:
		err = cmd.DoLogin(ctx, cfg, options)
	case logout:
		err = cmd.DoLogout(ctx, cfg, options)
	case refresh:
		err = cmd.DoRefresh(ctx, cfg, options)
	case searchQuery != "":
		err = cmd.DoSearch(ctx, cfg, options, searchQuery)
	case statusIDs != "":
		var ids []int64
		if ids, err = cmd.ParseIDs(statusIDs); err == nil {
			err = cmd.DoStatus(ctx, cfg, options, ids)
		}
	case updateID > 0:
		err = cmd.DoUpdate(ctx, cfg, options, updateID, cmd.UpdateRequest{
			Status:   setStatus,
			Progress: progress,
			Score:    score,
		})
	default:
		flag.Usage()
		return
	}

	if err != nil {
		if errors.Is(err, sdkAuth.ErrNotLoggedIn) {
			log.Errorf("not logged in to %s; run with -login first", trackerName)
		} else if myanimelist.IsUnauthorized(err) {
			log.Errorf("%s rejected the stored credential; run with -refresh or -login", trackerName)
		} else {
			log.Error(err)
		}
		stop()
		var authErr *myanimelist.AuthenticationError
		if errors.As(err, &authErr) && authErr.Type == myanimelist.ErrPortInUse.Type {
			os.Exit(myanimelist.ErrPortInUse.Code)
		}
		os.Exit(1)
	}
}
