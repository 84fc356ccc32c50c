package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkrasnov/linkhive/internal/config"
	"github.com/dkrasnov/linkhive/internal/database"
	"github.com/dkrasnov/linkhive/internal/database/bookmarks"
	"github.com/dkrasnov/linkhive/internal/database/tags"
	http_controllers "github.com/dkrasnov/linkhive/internal/http"
	"github.com/dkrasnov/linkhive/internal/scheduler"
	"github.com/dkrasnov/linkhive/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the watch importer)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// ImportOptionsFromConfig builds the server-wide default import options.
func ImportOptionsFromConfig(cfg *config.Config) services.ImportOptions {
	return services.ImportOptions{
		SkipDuplicates:     cfg.Import.SkipDuplicates,
		CreateMissingTags:  cfg.Import.CreateMissingTags,
		PreserveTimestamps: cfg.Import.PreserveTimestamps,
		BatchSize:          cfg.Import.BatchSize,
		DefaultTagColor:    cfg.Import.DefaultTagColor,
		FolderAsTag:        cfg.Import.FolderAsTag,
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Linkhive v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Single-user mode: make sure the configured account exists
	user, err := db.EnsureUser(cfg.Account.Username, cfg.Account.Email)
	if err != nil {
		log.Fatalf("Failed to ensure account %q: %v", cfg.Account.Username, err)
	}

	bookmarkRepo := bookmarks.NewRepository(db.DB)
	tagRepo := tags.NewRepository(db.DB)
	importService := services.NewImportService(bookmarkRepo, tagRepo)
	importOptions := ImportOptionsFromConfig(cfg)

	// Start the watch-directory importer if enabled
	watcher := scheduler.NewWatchImportScheduler(importService, db, user.ID, cfg.ImportWatch, importOptions)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	if err := watcher.Start(watchCtx); err != nil {
		log.Printf("WARNING: watch importer failed to start: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		BookmarkStore: bookmarkRepo,
		TagStore:      tagRepo,
		ImportService: importService,
		ImportOptions: importOptions,
		UserID:        user.ID,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		watcher.Stop()
		watchCancel()
	}

	Serve(router, cfg, onShutdown)
}
