package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/contact"
	"github.com/yanizio/folio/internal/csrf"
	"github.com/yanizio/folio/internal/database"
	"github.com/yanizio/folio/internal/delivery"
	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/message"
	"github.com/yanizio/folio/internal/portfolio"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/server"
	"github.com/yanizio/folio/internal/session"
	"github.com/yanizio/folio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Loads configuration (conf/global.yaml, .env, FOLIO_* overrides), starts the
daily-rotating logger, and serves the site until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(ctx)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.ListenAddr = addr
		}
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides http.listen_addr)")
}

// serve wires every component and blocks until ctx ends.
func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level, logger.IsTTY())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		// Country lookups are optional; run without them.
		log.Warnw("geo database unavailable", "path", cfg.Geo.DBPath, "err", err)
	}
	defer func() { _ = requestinfo.CloseGeo() }()

	content, err := portfolio.Load(cfg.Site.ContentPath)
	if err != nil {
		return err
	}

	key, err := securityKey(cfg.Security.CSRFKey, log)
	if err != nil {
		return err
	}
	tokens, err := csrf.New(key)
	if err != nil {
		return err
	}
	sessions, err := session.NewManager(key)
	if err != nil {
		return err
	}

	owner := ownerEmail(content, cfg.Site.OwnerEmail, log)
	actions := []delivery.Action{
		delivery.EmailAction{Queue: message.NewQueue(log), Owner: owner},
	}
	if cfg.Contact.ArchiveDSN != "" {
		db, err := database.Open(ctx, cfg.Contact.ArchiveDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		actions = append(actions, delivery.ArchiveAction{DB: db})
	}
	dispatcher := delivery.New(log, actions...)

	box := message.NewBox()
	forms := contact.NewStore(cfg.Contact.MaxSessions, box.Forget)
	defer forms.Close()

	submit := contact.NewHandler(contact.Options{
		SubmitDelay:     cfg.Contact.SubmitDelay,
		ResetDelay:      cfg.Contact.ResetDelay,
		DispatchTimeout: cfg.Contact.DispatchTimeout,
		Dispatcher:      dispatcher,
		Notifier:        web.ToastNotifier(box),
		Logger:          log,
		OnTransition: func(id string, from, to contact.Status) {
			log.Debugw("contact status", "form", id, "from", from, "to", to)
		},
	})

	site, err := web.New(web.Options{
		Content:    content,
		Forms:      forms,
		Submit:     submit,
		Tokens:     tokens,
		Sessions:   sessions,
		Toasts:     box,
		Owner:      owner,
		ForceHTTPS: cfg.HTTP.ForceHTTPS,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	log.Infow("folio starting",
		"addr", cfg.HTTP.ListenAddr,
		"projects", len(content.Projects),
		"delivery", dispatcher.Actions(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv := server.New(cfg.HTTP.ListenAddr, site.Routes())
		return server.Run(gctx, srv, cfg.HTTP.ShutdownTimeout, log)
	})
	err = g.Wait()
	log.Infow("folio stopped", "err", err)
	return err
}

// securityKey decodes the configured key that signs CSRF tokens and session
// cookies, or returns an ephemeral one when none is set.
func securityKey(key string, log *zap.SugaredLogger) ([]byte, error) {
	if key == "" {
		log.Warnw("security.csrf_key not set, using an ephemeral key")
		return csrf.RandomKey()
	}
	raw, err := csrf.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("security.csrf_key: %w", err)
	}
	if len(raw) < csrf.MinKeyBytes {
		return nil, fmt.Errorf("security.csrf_key: %w", csrf.ErrShortKey)
	}
	return raw, nil
}

// ownerEmail picks the contact recipient.  The address shown on the page
// wins so visitors never mail someone other than who they see.
func ownerEmail(content *portfolio.Content, configured string, log *zap.SugaredLogger) string {
	owner := content.OwnerEmail(configured)
	if configured != "" && owner != configured {
		log.Warnw("site.owner_email differs from personal.email, using personal.email",
			"configured", configured, "content", owner)
	}
	return owner
}
