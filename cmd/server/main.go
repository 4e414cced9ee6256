package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xinwork/repair-order-api/internal/auth"
	"github.com/xinwork/repair-order-api/internal/config"
	"github.com/xinwork/repair-order-api/internal/database"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/handlers"
	"github.com/xinwork/repair-order-api/internal/importer"
	"github.com/xinwork/repair-order-api/internal/logger"
	"github.com/xinwork/repair-order-api/internal/metrics"
	"github.com/xinwork/repair-order-api/internal/repository"
	"github.com/xinwork/repair-order-api/internal/services"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath     string
	importAs       string
	templateFormat string

	rootCmd = &cobra.Command{
		Use:          "repair-order-api",
		Short:        "Repair work-order API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and create the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	}

	importCmd = &cobra.Command{
		Use:   "import <entity> <file>",
		Short: "Bulk import a CSV or XLSX file into the configured database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], args[1])
		},
	}

	templateCmd = &cobra.Command{
		Use:   "template <entity>",
		Short: "Write an empty import template to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTemplate(args[0])
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("repair-order-api version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML configuration file")
	importCmd.Flags().StringVar(&importAs, "as", "", "username the import runs as")
	_ = importCmd.MarkFlagRequired("as")
	templateCmd.Flags().StringVar(&templateFormat, "format", string(importer.FormatCSV), "template format (csv or xlsx)")

	rootCmd.AddCommand(serveCmd, migrateCmd, importCmd, templateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every database-backed command needs
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	apierrors.SetLogger(log)

	if err := cfg.Database.EnsureSQLiteDir(); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() error {
	return multierr.Combine(database.Close(a.db), ignoreSyncError(a.log.Sync()))
}

// ignoreSyncError drops the error zap returns when syncing a terminal
func ignoreSyncError(err error) error {
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

func (a *app) services(m *metrics.Metrics) (*services.Services, error) {
	tokens, err := auth.NewTokenService(a.cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt configuration: %w", err)
	}
	return services.New(repository.NewRepositories(a.db), tokens, a.cfg.Upload, a.log, m), nil
}

func serve(ctx context.Context) (err error) {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.close()) }()

	if err := database.Migrate(a.db, a.log); err != nil {
		return err
	}

	var m *metrics.Metrics
	if a.cfg.Metrics.Enabled {
		m = metrics.New(a.cfg.Metrics.Namespace)
	}
	svc, err := a.services(m)
	if err != nil {
		return err
	}
	if created, err := svc.Users.EnsureAdmin(ctx, a.cfg.Bootstrap); err != nil {
		return err
	} else if created {
		a.log.Info("bootstrap admin created", zap.String("username", a.cfg.Bootstrap.AdminUsername))
	}

	gin.SetMode(a.cfg.Server.GinMode)
	if err := os.MkdirAll(a.cfg.Upload.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handlers.NewRouter(a.cfg, svc, a.db, a.log, m, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context) (err error) {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.close()) }()

	if err := database.Migrate(a.db, a.log); err != nil {
		return err
	}

	users := services.NewUserService(repository.NewRepositories(a.db))
	created, err := users.EnsureAdmin(ctx, a.cfg.Bootstrap)
	if err != nil {
		return err
	}
	if created {
		a.log.Info("bootstrap admin created", zap.String("username", a.cfg.Bootstrap.AdminUsername))
	}
	return nil
}

func runImport(ctx context.Context, entityName, path string) (err error) {
	entity, err := services.ParseImportEntity(entityName)
	if err != nil {
		return err
	}
	format, err := importer.FormatFromFilename(path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.close()) }()

	repos := repository.NewRepositories(a.db)
	user, err := repos.WithContext(ctx).Users.FindByUsername(importAs)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", importAs, err)
	}
	if !user.IsActive {
		return fmt.Errorf("user %q is inactive", importAs)
	}

	imports := services.NewImportService(repos, a.log, nil)
	result, err := imports.Import(ctx, services.Actor{ID: user.ID, Role: user.Role}, entity, raw, format)
	if err != nil {
		var de *apierrors.DomainError
		if errors.As(err, &de) && de.Details != nil {
			a.log.Error("import rejected", zap.Any("details", de.Details))
		}
		return err
	}

	fmt.Printf("imported %d %s\n", result.Imported, entity)
	return nil
}

func writeTemplate(entityName string) error {
	entity, err := services.ParseImportEntity(entityName)
	if err != nil {
		return err
	}
	format, err := importer.ParseFormat(templateFormat)
	if err != nil {
		return err
	}

	imports := services.NewImportService(nil, nil, nil)
	return imports.Template(os.Stdout, entity, format)
}
