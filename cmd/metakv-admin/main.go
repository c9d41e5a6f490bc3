package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metakv/metakv"
	"github.com/metakv/metakv/config"
	"github.com/metakv/metakv/heartbeat"
	"github.com/metakv/metakv/inodestore"
	"github.com/metakv/metakv/internal/util"
	"github.com/metakv/metakv/keycodec"
	"github.com/metakv/metakv/kvstore"
)

// seedEntry is one row of the JSON seed file: a directory entry plus the
// inode record it points at.
type seedEntry struct {
	Parent uint64 `json:"parent"`
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Dir    bool   `json:"dir,omitempty"`
	Size   uint64 `json:"size,omitempty"`
}

func main() {
	// Parse command line arguments
	var (
		configPath string
		backend    string
		dataDir    string
		seedPath   string
		parent     uint64
		prefix     string
		from       string
		list       bool
		clear      bool
		watch      bool
		verbose    int
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (yaml or json)")
	flag.StringVar(&backend, "backend", "", "Key-value backend: badger, leveldb or memory (overrides config)")
	flag.StringVar(&dataDir, "dir", "", "Backend data directory (overrides config)")
	flag.StringVar(&seedPath, "seed", "", "Path to a JSON seed file of directory entries to insert")
	flag.Uint64Var(&parent, "parent", 0, "Parent inode id for -list")
	flag.StringVar(&prefix, "prefix", "", "Only list child names starting with this prefix")
	flag.StringVar(&from, "from", "", "Resume the listing at this name (inclusive)")
	flag.BoolVar(&list, "list", false, "List the children of -parent")
	flag.BoolVar(&clear, "clear", false, "Bulk-delete the FileEntry and InodeEdge tables (32-bit id window)")
	flag.BoolVar(&watch, "watch", false, "Keep running and log enumeration skip stats periodically")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.Parse()

	// Initialize logger
	logLvl := config.VerbosityToLevel(verbose)
	util.InitializeLogger(logLvl)
	logger := util.GetLogger("main")

	// Load config and apply flag overrides on top
	cfg := config.NewConfig(nil)
	if configPath != "" {
		fileCfg, err := config.NewConfigFromFile(configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
		cfg = fileCfg
	}
	// flags win over the config file
	cfg.Merge(&config.ConfigOverride{LogLvl: &verbose})
	if backend != "" {
		cfg.Backend = config.Backend(backend)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	ctx := context.Background()

	kv, err := openBackend(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", string(cfg.Backend)).Msg("Failed to open backend")
	}
	defer kv.Close()
	logger.Info().Str("backend", string(cfg.Backend)).Str("dir", cfg.DataDir).Msg("Backend opened")

	store := inodestore.NewStore(kv, kv)

	if seedPath != "" {
		n, err := seed(ctx, kv, seedPath)
		if err != nil {
			logger.Fatal().Err(err).Str("seed", seedPath).Msg("Failed to seed entries")
		}
		logger.Info().Int("entries", n).Msg("Seeded directory entries")
	}

	if list {
		if err := listChildren(ctx, store, parent, prefix, from); err != nil {
			logger.Fatal().Err(err).Uint64("parent", parent).Msg("Listing failed")
		}
	}

	if clear {
		if err := inodestore.ClearFileEntries(ctx, kv); err != nil {
			logger.Fatal().Err(err).Msg("Failed to clear FileEntry table")
		}
		if err := inodestore.ClearInodeEdges(ctx, kv); err != nil {
			logger.Fatal().Err(err).Msg("Failed to clear InodeEdge table")
		}
		logger.Info().Uint64("parentMax", inodestore.ClearParentMax).Msg("Cleared FileEntry and InodeEdge tables")
	}

	if !watch {
		return
	}

	// Periodic stats logging until terminated
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	timer := heartbeat.NewSleepingTimer(time.Duration(cfg.StatsIntervalSec * float64(time.Second)))
	logger.Info().Dur("interval", timer.Interval()).Msg("Watching enumeration stats")
	for {
		if err := timer.Tick(sigCtx); err != nil {
			logger.Info().Msg("Received signal, shutting down")
			return
		}
		stats := store.Stats()
		logger.Info().
			Int64("skippedMissing", stats.SkippedMissing).
			Int64("skippedDecode", stats.SkippedDecode).
			Msg("Enumeration skip stats")
	}
}

func openBackend(cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return kvstore.OpenBadger(cfg.DataDir)
	case config.BackendLevelDB:
		return kvstore.OpenLevelDB(cfg.DataDir)
	case config.BackendMemory:
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// seed inserts both index rows for every entry in the seed file: the
// FileEntry edge and the InodeEdge record it points at.
func seed(ctx context.Context, kv kvstore.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to unmarshal seed file: %w", err)
	}

	for _, e := range entries {
		if err := kv.Put(ctx, keycodec.EncodeFileEntryKey(e.Parent, e.Name), keycodec.EncodeChildID(e.ID)); err != nil {
			return 0, err
		}
		attrs := metakv.InodeAttrs{Nlink: 1, Size: e.Size}
		var ino metakv.Inode
		if e.Dir {
			ino = metakv.NewDirectory(e.ID, e.Name, attrs)
		} else {
			ino = metakv.NewFile(e.ID, e.Name, attrs)
		}
		record, err := metakv.EncodeInode(ino)
		if err != nil {
			return 0, err
		}
		if err := kv.Put(ctx, keycodec.EncodeInodeEdgeKey(e.ID), record); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func listChildren(ctx context.Context, store *inodestore.Store, parent uint64, prefix, from string) error {
	opt := metakv.DefaultReadOption().WithPrefix(prefix).WithReadFrom(from)
	it, err := store.GetChildren(ctx, parent, opt)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		ino := it.Inode()
		kind := "file"
		if ino.IsDirectory() {
			kind = "dir"
		}
		fmt.Printf("%-4s %12d  %s\n", kind, ino.ID(), ino.Name())
	}
	return it.Err()
}
