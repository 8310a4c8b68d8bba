package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Aidin1998/foodgram/internal/config"
	"github.com/Aidin1998/foodgram/internal/database"
	"github.com/Aidin1998/foodgram/internal/fixtures"
	"github.com/Aidin1998/foodgram/pkg/logger"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	bootLogger, err := logger.NewLogger(logger.Options{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	code := exitCode(bootLogger, run(os.Args[1:]))
	_ = bootLogger.Sync()
	os.Exit(code)
}

// exitCode logs a failed run and maps it to a process exit status
func exitCode(log *zap.Logger, err error) int {
	if err == nil {
		return 0
	}
	log.Error("foodgram-admin failed", zap.Error(err))
	return 1
}

func run(args []string) error {
	opts := &Options{}
	var first string
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "-f" || a == "--config":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			first = a
		}
		if first != "" {
			break
		}
	}
	opts.Init(first)

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

// env is what every command needs
type env struct {
	logger *zap.Logger
	db     *gorm.DB
}

func (o *Options) env() (*env, func(), error) {
	zapLogger, err := logger.NewLogger(logger.Options{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var paths []string
	if o.Config != "" {
		paths = []string{o.Config}
	}
	cfg, err := config.Load(zapLogger, paths...)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = zapLogger.Sync()
	}
	return &env{logger: zapLogger, db: db}, closeFn, nil
}

// MigrateCmd creates or updates the schema
type MigrateCmd struct {
	options *Options
}

func (c *MigrateCmd) Execute(_ []string) error {
	e, closeFn, err := c.options.env()
	if err != nil {
		return err
	}
	defer closeFn()
	return database.Migrate(e.db, e.logger)
}

const (
	kindIngredients = "ingredients"
	kindTags        = "tags"
)

// LoadCmd loads a fixture file into the catalog
type LoadCmd struct {
	Input   string `short:"i" long:"input" required:"true" description:"fixture file (.json, .yaml or .yml)"`
	Migrate bool   `long:"migrate" description:"run migrations first"`

	options *Options
	kind    string
}

func (c *LoadCmd) Execute(_ []string) error {
	e, closeFn, err := c.options.env()
	if err != nil {
		return err
	}
	defer closeFn()

	if c.Migrate {
		if err := database.Migrate(e.db, e.logger); err != nil {
			return err
		}
	}

	loader := fixtures.NewLoader(e.logger, e.db)
	var res *fixtures.Result
	switch c.kind {
	case kindTags:
		res, err = loader.LoadTags(context.Background(), c.Input)
	default:
		res, err = loader.LoadIngredients(context.Background(), c.Input)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d created, %d skipped\n", c.kind, res.Created, res.Skipped)
	return nil
}
