package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockbook/internal/auth"
	"stockbook/internal/cache"
	"stockbook/internal/command"
	"stockbook/internal/config"
	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/logging"
	"stockbook/internal/model"
	"stockbook/internal/parser"
	"stockbook/internal/sample"
	"stockbook/internal/store"
	"stockbook/internal/store/jsonfile"
	"stockbook/internal/store/memory"
	pgstore "stockbook/internal/store/postgres"
)

const prompt = "> "

func main() {
	envFile := flag.String("env", ".env", "file with KEY=VALUE settings, ignored when missing")
	dataPath := flag.String("data", "", "JSON data file (overrides STOCKBOOK_DATA_PATH)")
	storage := flag.String("storage", "", "json, memory or postgres (overrides STOCKBOOK_STORAGE)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	cfg := config.Load()
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *storage != "" {
		cfg.Storage = strings.ToLower(*storage)
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Fatal("stockbook stopped", zap.Error(err))
	}
}

func validateConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.RedisAddr != "" && cfg.Storage == config.StorageMemory {
		return fmt.Errorf("REDIS_ADDR has no effect with memory storage")
	}
	return nil
}

func run(cfg config.Config, logger *zap.Logger, in io.Reader, out io.Writer) error {
	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	storage, closers, err := openStorage(setupCtx, cfg, logger)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warn("close failed", zap.Error(err))
			}
		}
	}()
	if err != nil {
		return err
	}

	defaultStaff, err := sample.DefaultStaff(cfg.SeedAdminPassword, logger)
	if err != nil {
		return err
	}
	snap, seeded, err := loadOrSeed(setupCtx, storage, defaultStaff)
	if err != nil {
		return err
	}

	sessions, err := sessionManager(cfg, logger)
	if err != nil {
		return err
	}
	m, err := model.New(snap.View(),
		model.WithLogger(logger),
		model.WithAuth(sessions),
		model.WithHistoryLimit(cfg.HistoryLimit),
		model.WithDefaultStaff(defaultStaff),
	)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	persister := store.NewPersister(storage, logger, cfg.SaveTimeout())
	m.Subscribe(persister.Observe)
	if seeded {
		persister.Observe(model.ChangeNotification{Reason: model.ReasonCommit, Snapshot: snap})
	}
	logger.Info("inventory ready",
		zap.String("storage", cfg.Storage),
		zap.Int("items", len(snap.Items)),
		zap.Int("sales", len(snap.Sales)),
		zap.Bool("seeded", seeded),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exec := command.NewExecutor(m)
	go exec.Run(ctx)

	done := make(chan error, 1)
	go func() { done <- repl(ctx, exec, in, out, persister.LastError) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		fmt.Fprintln(out)
		logger.Info("interrupted")
		return nil
	}
}

// openStorage returns the configured storage plus the close functions the caller
// must run, which are returned even on error.
func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Storage, []func() error, error) {
	closers := make([]func() error, 0, 2)

	var primary store.Storage
	switch cfg.Storage {
	case config.StoragePostgres:
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, closers, fmt.Errorf("postgres unavailable: %w", err)
		}
		pg.SetRetention(cfg.SnapshotRetention)
		primary = pg
		closers = append(closers, pg.Close)
		logger.Info("storage: postgres")
	case config.StorageMemory:
		primary = memory.New()
		logger.Info("storage: in-memory")
	default:
		primary = jsonfile.New(cfg.DataPath)
		logger.Info("storage: json file", zap.String("path", cfg.DataPath))
	}

	if cfg.RedisAddr == "" {
		logger.Debug("cache: noop")
		return primary, closers, nil
	}
	redisCache := cache.NewRedisSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, using noop cache", zap.Error(err))
		_ = redisCache.Close()
		return primary, closers, nil
	}
	closers = append(closers, redisCache.Close)
	logger.Info("cache: redis", zap.String("addr", cfg.RedisAddr))
	return store.NewCached(primary, redisCache, cfg.CacheTTL(), logger), closers, nil
}

// loadOrSeed reads the saved inventory, falling back to the sample catalogue when
// nothing has been saved. A saved inventory without staff gets the default staff.
func loadOrSeed(ctx context.Context, storage store.Storage, defaultStaff []domain.Staff) (inventory.Snapshot, bool, error) {
	snap, err := storage.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		snap = sample.Snapshot()
		snap.Staff = defaultStaff
		return snap, true, nil
	case err != nil:
		return inventory.Snapshot{}, false, fmt.Errorf("load inventory: %w", err)
	}
	if len(snap.Staff) == 0 {
		snap.Staff = defaultStaff
	}
	return snap, false, nil
}

func sessionManager(cfg config.Config, logger *zap.Logger) (*auth.Manager, error) {
	if cfg.SessionSecret == "" {
		logger.Debug("SESSION_SECRET not set, sessions end with the process")
		return auth.NewEphemeralManager(cfg.SessionTTL()), nil
	}
	return auth.NewManager(cfg.SessionSecret, cfg.SessionTTL())
}

// repl reads one command per line until exit, end of input or a stopped executor.
func repl(ctx context.Context, exec *command.Executor, in io.Reader, out io.Writer, saveErr func() error) error {
	scanner := bufio.NewScanner(in)
	warned := false

	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(out, prompt)
			continue
		}

		result, err := execute(ctx, exec, line)
		if err != nil {
			var cmdErr *command.Error
			if !errors.As(err, &cmdErr) && !errors.Is(err, domain.ErrInvalidValue) {
				return err
			}
			fmt.Fprintln(out, err)
			fmt.Fprint(out, prompt)
			continue
		}

		fmt.Fprintln(out, result.Feedback)
		if result.View != command.ViewNone {
			table, err := exec.Submit(ctx, renderView{view: result.View, selected: result.Selected})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, table.Feedback)
		}
		if err := saveErr(); err != nil {
			if !warned {
				fmt.Fprintf(out, "Warning: changes are kept in memory but could not be saved: %v\n", err)
			}
			warned = true
		} else {
			warned = false
		}
		if result.Exit {
			return nil
		}
		fmt.Fprint(out, prompt)
	}
	return scanner.Err()
}

func execute(ctx context.Context, exec *command.Executor, line string) (command.Result, error) {
	cmd, err := parser.Parse(line)
	if err != nil {
		return command.Result{}, err
	}
	return exec.Submit(ctx, cmd)
}
