package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/signon/internal/config"
	"github.com/dropDatabas3/signon/internal/email"
	httpx "github.com/dropDatabas3/signon/internal/http"
	"github.com/dropDatabas3/signon/internal/http/handlers"
	"github.com/dropDatabas3/signon/internal/metrics"
	"github.com/dropDatabas3/signon/internal/oauth"
	"github.com/dropDatabas3/signon/internal/observability/logger"
	"github.com/dropDatabas3/signon/internal/provider"
	"github.com/dropDatabas3/signon/internal/rate"
	"github.com/dropDatabas3/signon/internal/signin"
	store "github.com/dropDatabas3/signon/internal/store"

	// adapters se registran via init()
	_ "github.com/dropDatabas3/signon/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/signon/internal/store/adapters/pg"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:   "signon",
		Short: "signon: capa de orquestación de sign-in (OAuth + magic links)",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("SIGNON_CONFIG", "config.yaml"), "ruta al config YAML")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "signon",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	if err := metrics.Register(nil); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := store.Open(ctx, store.AdapterConfig{
		Name:     cfg.Storage.Driver,
		DSN:      cfg.Storage.DSN,
		MaxConns: cfg.Storage.MaxConns,
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	log.Info("store_connected", zap.String("driver", conn.Name()))

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if cfg.Rate.Redis.Addr != "" {
			client := rdb.NewClient(&rdb.Options{Addr: cfg.Rate.Redis.Addr, DB: cfg.Rate.Redis.DB})
			limiter = rate.NewRedisLimiter(client, cfg.Rate.Redis.Prefix, cfg.Rate.EmailSignin.Limit, cfg.EmailSigninWindow())
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.EmailSignin.Limit, cfg.EmailSigninWindow())
		}
	}

	sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	if cfg.SMTP.TLS != "" {
		sender.TLSMode = cfg.SMTP.TLS
	}
	sender.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify

	tmpl := email.DefaultTemplates()
	if cfg.Email.TemplatesDir != "" {
		tmpl, err = email.LoadTemplates(cfg.Email.TemplatesDir)
		if err != nil {
			return fmt.Errorf("load email templates: %w", err)
		}
	}

	providers := make(map[string]provider.Provider, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		providers[pc.ID] = provider.Provider{
			ID:                    pc.ID,
			Name:                  pc.Name,
			Kind:                  provider.ParseKind(pc.Type),
			AuthorizationEndpoint: pc.AuthorizationEndpoint,
			ClientID:              pc.ClientID,
			ClientSecret:          pc.ClientSecret,
			Scopes:                pc.Scopes,
		}
	}

	builder := oauth.NewBuilder([]byte(cfg.Auth.StateSecret), cfg.StateTTL())
	issuer := email.NewIssuer(sender, conn.VerificationTokens(), tmpl, cfg.VerifyTTL(), limiter)
	orch := signin.New(builder, issuer)
	verifier := email.NewVerifier(conn, cfg.SessionTTL())

	signInH := handlers.NewSignInHandler(cfg.Server.BaseURL, providers, orch, conn.Users(), signin.Callbacks{})
	callbackH := handlers.NewCallbackHandler(cfg.Server.BaseURL, providers, verifier, cfg.Auth.SecureCookies)
	router := httpx.NewRouter(conn, signInH, callbackH)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http_listen", zap.String("addr", cfg.Server.Addr))
		return httpx.Start(gctx, cfg.Server.Addr, router)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("shutdown_complete")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
