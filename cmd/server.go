package cmd

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/auth"
	"github.com/lunar-antiques/lunar/internal/crm"
	"github.com/lunar-antiques/lunar/internal/metrics"
	"github.com/lunar-antiques/lunar/internal/notifications"
	"github.com/lunar-antiques/lunar/internal/pages"
	"github.com/lunar-antiques/lunar/internal/server"
	"github.com/lunar-antiques/lunar/internal/services"
	"github.com/lunar-antiques/lunar/internal/viewer"
)

const (
	viewerIdleTimeout = 30 * time.Minute
	reapInterval      = time.Minute
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the website and admin API server",
	Long:  `Starts the Lunar HTTP server: public pages, catalog API, 360° viewer sessions over REST and WebSocket, and the admin CMS/CRM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		items, err := openCollectionStore(cfg, database)
		if err != nil {
			return err
		}
		serviceStore := services.NewStore(database)
		if n, err := services.Seed(ctx, serviceStore); err != nil {
			return fmt.Errorf("seeding services: %w", err)
		} else if n > 0 {
			slog.Info("seeded default services", "count", n)
		}

		sessions, closeSessions, err := sessionStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSessions()
		gate := auth.NewGate(cfg.Admin.Username, cfg.Admin.Password,
			time.Duration(cfg.Admin.SessionTTLMinutes)*time.Minute, sessions)

		rd, err := pages.New(cfg.Content.Dir)
		if err != nil {
			return fmt.Errorf("loading pages: %w", err)
		}

		viewers := viewer.NewRegistry(viewerOptions(cfg))
		defer viewers.CloseAll()

		notifier := notifications.NewDispatcher(cfg.Notifications.InquiryWebhookURL)
		defer notifier.Wait()

		auditStore := audit.NewStore(database)
		pruneAudit(ctx, auditStore, cfg.Audit.RetentionDays)

		var reg *prometheus.Registry
		if cfg.Metrics.Enabled {
			reg = metrics.NewRegistry()
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, server.Deps{
			Items:    items,
			Services: serviceStore,
			CRM:      crm.NewStore(database),
			Audit:    auditStore,
			Gate:     gate,
			Viewers:  viewers,
			Pages:    rd,
			Notifier: notifier,
			Limiter:  crm.NewLimiter(cfg.Contact.RatePerMinute),
			Metrics:  reg,
		})

		go reapViewers(ctx, viewers)

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown", "error", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "lunar server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Collection: %s (%s)\n", cfg.Storage.Backend, cfg.StoragePath())
		fmt.Fprintf(os.Stderr, "  Sessions: %s\n", cfg.Admin.SessionBackend)
		if notifier.Enabled() {
			fmt.Fprintln(os.Stderr, "  Inquiry webhook: enabled")
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// pruneAudit drops audit entries older than the retention window.
func pruneAudit(ctx context.Context, store *audit.Store, days int) {
	if days <= 0 {
		return
	}
	n, err := store.DeleteBefore(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		slog.Warn("pruning audit trail", "error", err)
		return
	}
	if n > 0 {
		slog.Info("pruned audit entries", "count", n, "retention_days", days)
	}
}

// reapViewers closes REST viewer sessions nobody has touched for a while.
func reapViewers(ctx context.Context, reg *viewer.Registry) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := reg.Reap(now, viewerIdleTimeout); n > 0 {
				slog.Debug("reaped idle viewer sessions", "count", n)
			}
		}
	}
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
