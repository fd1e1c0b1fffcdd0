// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/starford/harvester/internal/contract"
	"github.com/starford/harvester/internal/credentials"
	"github.com/starford/harvester/internal/ledger"
	"github.com/starford/harvester/internal/material"
	"github.com/starford/harvester/internal/mcpserver"
	"github.com/starford/harvester/internal/output"
	"github.com/starford/harvester/internal/pipeline"
	"github.com/starford/harvester/internal/publisher"
	"github.com/starford/harvester/internal/resolver"
	"github.com/starford/harvester/internal/storage"
	"github.com/starford/harvester/internal/upstream"
)

// DisabledEnv stubs downstream publishing while the harvest still runs.
const DisabledEnv = "HARVESTER_DISABLED"

func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		app.logOutput = os.Stdout
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app, logger, nil
}

// components are the long-lived collaborators shared by the commands.
type components struct {
	files  storage.Provider
	db     *ledger.DB
	store  *credentials.Store
	client *upstream.Client
	sink   *material.CSVSink
	canon  *material.Canonicalizer
}

func (c *components) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (a *application) open(logger *slog.Logger) (*components, error) {
	cfg := a.config

	// Ensure output directory exists.
	if err := os.MkdirAll(cfg.Run.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	files, err := storage.NewFS(cfg.Run.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := ledger.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init ledger: %w", err)
	}

	store, err := a.credentialStore(logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	sink, canon, err := a.materials(files, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := upstream.New(upstream.Options{
		BaseURL:         cfg.Upstream.APIBase(),
		MinorVersion:    cfg.Upstream.MinorVersion,
		PageSize:        cfg.Upstream.PageSize,
		ScanLimit:       cfg.Upstream.CustomerScanLimit,
		RatePerMinute:   cfg.Upstream.RateLimitPerMin,
		RequestTimeout:  cfg.Upstream.RequestTimeout,
		DocumentTimeout: cfg.Upstream.DocumentTimeout,
		Refresher:       store,
		Files:           files,
		Documents:       db,
		Logger:          logger,
	})

	return &components{files: files, db: db, store: store, client: client, sink: sink, canon: canon}, nil
}

func (a *application) credentialStore(logger *slog.Logger) (*credentials.Store, error) {
	cfg := a.config
	tokensPath, err := filepath.Abs(cfg.Upstream.TokensPath)
	if err != nil {
		return nil, fmt.Errorf("resolve tokens path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(tokensPath), 0o755); err != nil {
		return nil, fmt.Errorf("create tokens dir: %w", err)
	}
	tokenFiles, err := storage.NewFS(filepath.Dir(tokensPath))
	if err != nil {
		return nil, fmt.Errorf("init token storage: %w", err)
	}

	return credentials.NewStore(credentials.Options{
		OAuth:      oauthConfig(&cfg.Upstream),
		Files:      tokenFiles,
		Path:       filepath.Base(tokensPath),
		Authorizer: a.authorizer(logger),
		Presenter:  a.presenter,
		Logger:     logger,
	}), nil
}

func (a *application) authorizer(logger *slog.Logger) credentials.Authorizer {
	cfg := a.config
	if credentials.UseRelay(cfg.Relay.BaseURL, cfg.Relay.Auth, cfg.Upstream.RedirectURI) {
		logger.Info("Using callback relay", slog.String("relay", cfg.Relay.BaseURL))
		return &credentials.RelayPoller{
			BaseURL:   cfg.Relay.BaseURL,
			AuthToken: cfg.Relay.Auth,
			Attempts:  cfg.Relay.Attempts,
			Interval:  cfg.Relay.Interval,
			Logger:    logger,
		}
	}
	return &credentials.CallbackListener{
		Addr:    cfg.Callback.Address,
		Path:    callbackPath(cfg.Upstream.RedirectURI),
		Timeout: cfg.Callback.Timeout,
		Logger:  logger,
	}
}

func (a *application) materials(files storage.Provider, logger *slog.Logger) (*material.CSVSink, *material.Canonicalizer, error) {
	cfg := a.config.Materials
	tables, err := material.LoadTables(cfg.MappingPath, cfg.OverridesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load material tables: %w", err)
	}
	sink := material.NewCSVSink(files, cfg.UnmappedPath)
	return sink, material.New(tables, sink, cfg.FuzzyCutoff, logger), nil
}

func oauthConfig(cfg *UpstreamConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func callbackPath(redirectURI string) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Path == "" {
		return "/callback"
	}
	return u.Path
}

// Run performs one harvest with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		slog.String("upstream", cfg.Upstream.APIBase()),
		slog.String("downstream_target", cfg.Downstream.Target),
		slog.String("output_dir", cfg.Run.OutputDir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("customers", len(cfg.Run.Customers)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c, err := app.open(logger)
	if err != nil {
		return err
	}
	defer c.Close()

	creds, err := c.store.Obtain(ctx)
	if err != nil {
		return fmt.Errorf("obtain credentials: %w", err)
	}
	session := upstream.NewSession(c.client, creds)

	pub, err := publisher.New(publisher.Options{
		BuyerBase:     cfg.Downstream.BuyerBase,
		SellerBase:    cfg.Downstream.SellerBase,
		Target:        publisher.Target(cfg.Downstream.Target),
		Username:      cfg.Downstream.Username,
		Password:      cfg.Downstream.Password,
		Enabled:       cfg.Downstream.PublishEnabled,
		Disabled:      Disabled(os.Getenv(DisabledEnv)),
		Env:           cfg.Downstream.Env,
		ImportMode:    cfg.Downstream.ImportMode,
		Timeout:       cfg.Downstream.Timeout,
		SkipPublished: cfg.Downstream.SkipPublished,
		Ledger:        c.db,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	if pub.Stubbed() {
		logger.Warn("Publishing disabled, contracts are built but not sent")
	}

	from, to := pipeline.Window(time.Now(), cfg.Run.DateWindowDays)
	orch := pipeline.New(pipeline.Config{
		Customers: cfg.Run.Customers,
		From:      from,
		To:        to,
		Workbook:  cfg.Export.XLSX,
	}, pipeline.Deps{
		Upstream:    session,
		Resolver:    resolver.New(session, cfg.Customers.FuzzyCutoff, logger),
		Materials:   c.canon,
		Transformer: contract.New(contract.Options{Seller: cfg.Downstream.Seller, UnknownUnit: contract.UnitPolicy(cfg.Run.UnknownUnit), Logger: logger}),
		Publisher:   pub,
		Output:      output.NewWriter(c.files),
		Ledger:      c.db,
		Logger:      logger,
	})

	sum, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("harvest run: %w", err)
	}
	logger.Info("Harvest complete",
		slog.String("run_id", sum.RunID),
		slog.Int("rows", sum.RowsResolved),
		slog.Int("contracts", sum.ContractsBuilt),
		slog.Int("published", sum.ContractsPublished),
		slog.Int("publish_failures", sum.PublishFailures),
		slog.Int("unmapped_materials", sum.MaterialsUnmapped))
	return nil
}

// Authorize runs the consent flow and stores fresh tokens.
func Authorize(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.credentialStore(logger)
	if err != nil {
		return err
	}
	creds, err := store.Reauthorize(ctx)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	fmt.Fprintf(app.stdout, "Authorized realm %s\n", creds.RealmID)
	return nil
}

// Customers dumps the upstream customer directory.
func Customers(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.open(logger)
	if err != nil {
		return err
	}
	defer c.Close()

	creds, err := c.store.Obtain(ctx)
	if err != nil {
		return fmt.Errorf("obtain credentials: %w", err)
	}
	customers, err := upstream.NewSession(c.client, creds).AllCustomers(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	if err := output.NewWriter(c.files).WriteCustomers(output.CustomersFile, customers); err != nil {
		return err
	}
	for _, cu := range customers {
		fmt.Fprintf(app.stdout, "%s\t%s\n", cu.ID, cu.DisplayName)
	}
	return nil
}

// Canonicalize prints the canonical label of one material description.
func Canonicalize(_ context.Context, text, customer string, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	tables, err := material.LoadTables(app.config.Materials.MappingPath, app.config.Materials.OverridesPath)
	if err != nil {
		return fmt.Errorf("load material tables: %w", err)
	}
	res := material.New(tables, nil, app.config.Materials.FuzzyCutoff, logger).Resolve(text, customer)
	fmt.Fprintf(app.stdout, "%s\t%s\n", res.Label, res.Tier)
	return nil
}

// ServeMCP serves the operator tools on stdio until the input closes or
// ctx is cancelled. Material tables are reloaded when their files change.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	c, err := app.open(logger)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := mcpserver.New(c.canon, c.sink, c.db, c.files)
	reload := material.Reloader(c.canon, cfg.Materials.MappingPath, cfg.Materials.OverridesPath, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	for _, path := range []string{cfg.Materials.MappingPath, cfg.Materials.OverridesPath} {
		if path == "" {
			continue
		}
		g.Go(func() error {
			if err := material.WatchFile(gCtx, path, logger, reload); err != nil {
				logger.Warn("material watcher unavailable", slog.String("path", path), slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		logger.Info("MCP server starting on stdio")
		err := srv.Serve(gCtx, app.stdin, app.stdout)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("MCP server stopped")
	return nil
}
