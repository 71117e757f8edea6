package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/blobstore"
	"github.com/sagarc03/tasker/config"
	"github.com/sagarc03/tasker/database"
	taskerhttp "github.com/sagarc03/tasker/http"
	"github.com/sagarc03/tasker/objectstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the tasker HTTP API.

With attachments.backend set to local, the server also acts as the object
store: presigned uploads go to /{bucket}/{taskId} on this server and files are
written below attachments.local_path.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	authorizer, err := cfg.Auth.NewAuthorizer(slog.Default())
	if err != nil {
		return fmt.Errorf("configure auth: %w", err)
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	slog.Info("connected to database", "type", cfg.Database.Type, "auto_migrate", cfg.Database.AutoMigrate)

	attachments := cfg.Attachments
	var bucket http.Handler
	if attachments.Backend == objectstore.BackendLocal {
		var closeRoot func()
		bucket, closeRoot, err = localBucket(cfg, &attachments)
		if err != nil {
			return err
		}
		defer closeRoot()
	}

	signer, err := objectstore.New(ctx, attachments.SignerConfig())
	if err != nil {
		return fmt.Errorf("create url signer: %w", err)
	}

	service, err := tasker.NewTaskService(db.GetRepo(), signer, tasker.ServiceConfig{
		URLExpiration: attachments.Expiration(),
		Logger:        slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handlerConfig := taskerhttp.HandlerConfig{
		Authorizer:  authorizer,
		CORS:        cfg.CORS,
		HealthCheck: db.Ping,
	}
	if cfg.Metrics.Enabled {
		handlerConfig.Metrics = taskerhttp.NewMetrics()
		handlerConfig.MetricsPath = cfg.Metrics.Path
		if handlerConfig.MetricsPath == "" {
			handlerConfig.MetricsPath = "/metrics"
		}
	}
	if bucket != nil {
		handlerConfig.Attachments = bucket
		handlerConfig.AttachmentsPath = "/" + attachments.Bucket
	}

	handler := taskerhttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "attachments", attachments.Backend, "bucket", attachments.Bucket)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// localBucket prepares the in-process object store. It fills in the endpoint
// and, when none are configured, a throwaway credential pair shared by the
// signer and the verifier.
func localBucket(cfg *config.Config, attachments *config.AttachmentsConfig) (http.Handler, func(), error) {
	if attachments.Endpoint == "" {
		attachments.Endpoint = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if attachments.Region == "" {
		attachments.Region = "us-east-1"
	}
	if attachments.AccessKey == "" || attachments.SecretKey == "" {
		attachments.AccessKey = "local-" + uuid.NewString()
		attachments.SecretKey = uuid.NewString()
		slog.Debug("generated local attachment credentials", "access_key", attachments.AccessKey)
	}

	if err := os.MkdirAll(attachments.LocalPath, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create attachment directory: %w", err)
	}

	root, err := os.OpenRoot(attachments.LocalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment root: %w", err)
	}

	verifier := blobstore.NewVerifier(attachments.Region, attachments.AccessKey, attachments.SecretKey)
	handler := blobstore.NewHandler(blobstore.NewStore(root), verifier, slog.Default())

	return handler.Router(), func() { _ = root.Close() }, nil
}
