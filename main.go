package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/redis/v3"
	"github.com/khanghh/kaudit/internal/alert"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/internal/common"
	"github.com/khanghh/kaudit/internal/config"
	"github.com/khanghh/kaudit/internal/detector"
	"github.com/khanghh/kaudit/internal/handlers/api"
	"github.com/khanghh/kaudit/internal/mail"
	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/internal/middlewares"
	"github.com/khanghh/kaudit/internal/query"
	"github.com/khanghh/kaudit/internal/render"
	"github.com/khanghh/kaudit/internal/retention"
	"github.com/khanghh/kaudit/internal/risk"
	"github.com/khanghh/kaudit/internal/store"
	"github.com/khanghh/kaudit/internal/writer"
	"github.com/khanghh/kaudit/model"
	dbquery "github.com/khanghh/kaudit/model/query"
	"github.com/khanghh/kaudit/params"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

//go:generate go run ./cmd/gen

var (
	app       *cli.App
	gitCommit string
	gitDate   string
	gitTag    string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	chainFlag = &cli.StringFlag{
		Name:  "chain",
		Usage: "Chain to verify, every chain when empty",
	}
	fromSeqFlag = &cli.Uint64Flag{
		Name:  "from",
		Usage: "First sequence number to verify",
	}
	toSeqFlag = &cli.Uint64Flag{
		Name:  "to",
		Usage: "Last sequence number to verify",
	}
	frameworkFlag = &cli.StringFlag{
		Name:     "framework",
		Usage:    "Compliance framework (soc2, hipaa, gdpr, pci_dss, sox, iso27001)",
		Required: true,
	}
	startFlag = &cli.TimestampFlag{
		Name:     "start",
		Usage:    "Period start (RFC3339)",
		Layout:   time.RFC3339,
		Required: true,
	}
	endFlag = &cli.TimestampFlag{
		Name:     "end",
		Usage:    "Period end, exclusive (RFC3339)",
		Layout:   time.RFC3339,
		Required: true,
	}
	subjectFlag = &cli.StringFlag{
		Name:     "subject",
		Usage:    "Token subject",
		Required: true,
	}
	rolesFlag = &cli.StringSliceFlag{
		Name:  "roles",
		Usage: "Roles granted to the token (admin, producer, auditor, investigator)",
	}
	ttlFlag = &cli.DurationFlag{
		Name:  "ttl",
		Usage: "Token lifetime",
		Value: 24 * time.Hour,
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "kaudit - tamper-evident audit logging and security event detection"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		{
			Name:   "verify",
			Usage:  "Verify the hash chain",
			Flags:  []cli.Flag{chainFlag, fromSeqFlag, toSeqFlag},
			Action: verify,
		},
		{
			Name:   "retention",
			Usage:  "Run one retention sweep",
			Action: sweep,
		},
		{
			Name:   "report",
			Usage:  "Generate a compliance report",
			Flags:  []cli.Flag{frameworkFlag, startFlag, endFlag},
			Action: report,
		},
		{
			Name:   "policies",
			Usage:  "List retention policies",
			Action: listPolicies,
		},
		{
			Name:   "token",
			Usage:  "Issue an API bearer token",
			Flags:  []cli.Flag{subjectFlag, rolesFlag, ttlFlag},
			Action: issueToken,
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustLoadConfig(ctx *cli.Context) *config.Config {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		os.Exit(1)
	}
	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))
	if err := model.SetNodeID(cfg.NodeID); err != nil {
		slog.Error("Invalid node id", "nodeID", cfg.NodeID, "error", err)
		os.Exit(1)
	}
	return cfg
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	replicas := make([]gorm.Dialector, 0, len(dbConfig.Replicas))
	for _, dsn := range dbConfig.Replicas {
		replicas = append(replicas, mysql.Open(dsn))
	}
	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	})
	if dbConfig.MaxIdleConns > 0 {
		resolver.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.MaxOpenConns > 0 {
		resolver.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.ConnMaxIdleTime > 0 {
		resolver.SetConnMaxIdleTime(time.Duration(dbConfig.ConnMaxIdleTime) * time.Second)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		resolver.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
	}
	if err := db.Use(resolver); err != nil {
		slog.Error("Failed to register read replicas", "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	dbquery.SetDefault(db)
	return db
}

func mustInitRedisStorage(redisCfg config.RedisConfig) *redis.Storage {
	return redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
}

func mustParseMinSeverity(name string) model.Severity {
	level, err := config.ParseMinSeverity(name)
	if err != nil {
		slog.Error("Invalid alert level", "level", name, "error", err)
		os.Exit(1)
	}
	return level
}

func mustInitAlertDispatcher(cfg config.AlertsConfig) *alert.Dispatcher {
	dispatcher := alert.NewDispatcher(cfg.Config)
	if cfg.Email.Enabled {
		sender, err := mail.NewSMTPMailSender(cfg.Email.SMTP)
		if err != nil {
			slog.Error("Failed to initialize SMTP mail sender", "error", err)
			os.Exit(1)
		}
		dispatcher.Register(alert.NewEmailChannel(sender, cfg.Email.Recipients), mustParseMinSeverity(cfg.Email.MinSeverity))
	}
	for _, whCfg := range cfg.Webhooks {
		channel, err := alert.NewWebhookChannel(whCfg.WebhookConfig)
		if err != nil {
			slog.Error("Failed to initialize webhook channel", "name", whCfg.Name, "error", err)
			os.Exit(1)
		}
		dispatcher.Register(channel, mustParseMinSeverity(whCfg.MinSeverity))
	}
	if cfg.SMS.Enabled {
		channel, err := alert.NewSMSChannel(cfg.SMS.SMSConfig)
		if err != nil {
			slog.Error("Failed to initialize SMS channel", "error", err)
			os.Exit(1)
		}
		dispatcher.Register(channel, mustParseMinSeverity(cfg.SMS.MinSeverity))
	}
	if cfg.LogChannel {
		dispatcher.Register(alert.LogChannel{}, model.SeverityInfo)
	}
	slog.Info("Alert channels registered", "channels", dispatcher.Channels())
	return dispatcher
}

func mustInitRetentionManager(ctx context.Context, cfg retention.Config, db *gorm.DB, recorder audit.Recorder) *retention.Manager {
	var opts []retention.Option
	if cfg.S3.Enabled {
		exporter, err := retention.NewS3Exporter(ctx, cfg.S3)
		if err != nil {
			slog.Error("Failed to initialize S3 exporter", "error", err)
			os.Exit(1)
		}
		opts = append(opts, retention.WithExporter(exporter))
	}
	return retention.NewManager(cfg, db, retention.NewPolicyRepository(dbquery.Q), recorder, opts...)
}

// ingestion holds the components every command that records events needs.
type ingestion struct {
	db           *gorm.DB
	redisStorage *redis.Storage
	cacheStorage *store.RedisStorage
	signer       *chain.Signer
	writer       *writer.Writer
	registry     *chain.Registry
	service      *audit.Service
}

// close drains the writer so every admitted event is durable or in the
// fallback log before the process exits, then gives up the chain locks.
func (in *ingestion) close(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := in.writer.Close(ctx); err != nil {
		slog.Error("Failed to drain event writer", "error", err)
	}
	if err := in.registry.Close(); err != nil {
		slog.Warn("Failed to release chain locks", "error", err)
	}
	if err := in.redisStorage.Close(); err != nil {
		slog.Warn("Failed to close redis storage", "error", err)
	}
}

// mustInitIngestion wires the recording pipeline. Chains are locked in MySQL by
// whichever process sequences them, so a one-shot command claims the
// categories it records under up front and fails fast while a server holds
// them.
func mustInitIngestion(ctx context.Context, cfg *config.Config, lockWait time.Duration, claims ...string) *ingestion {
	db := mustInitDatabase(cfg.MySQL)
	redisStorage := mustInitRedisStorage(cfg.Redis)
	cacheStorage := store.NewRedisStorage(redisStorage.Conn())
	signer, err := chain.NewSigner(cfg.MasterKey)
	if err != nil {
		slog.Error("Failed to initialize event signer", "error", err)
		os.Exit(1)
	}
	eventRepo := audit.NewEventRepository(db)

	eventWriter, err := writer.New(cfg.Writer, eventRepo)
	if err != nil {
		slog.Error("Failed to initialize event writer", "error", err)
		os.Exit(1)
	}
	// replayed events must be visible before the chain tails are loaded
	if err := eventWriter.Reconcile(ctx); err != nil {
		slog.Error("Failed to reconcile fallback log", "error", err)
		os.Exit(1)
	}
	eventWriter.Start()

	registry, err := chain.NewRegistry(chain.Mode(cfg.Chain.Mode), cfg.Chain.Name, eventRepo, signer,
		chain.WithLocker(chain.NewMySQLLocker(db, lockWait)))
	if err != nil {
		slog.Error("Failed to initialize chain registry", "error", err)
		os.Exit(1)
	}
	for _, category := range claims {
		if err := registry.Claim(ctx, category); err != nil {
			if errors.Is(err, chain.ErrChainLocked) {
				slog.Error("Chain is sequenced by another process, stop the server or retry later", "category", category)
			} else {
				slog.Error("Failed to claim chain", "category", category, "error", err)
			}
			os.Exit(1)
		}
	}

	service := audit.NewService(
		registry,
		risk.NewScorer(cfg.Risk.Weights),
		risk.NewRedisHistory(cacheStorage, cfg.Risk.HistoryWindow),
		eventWriter,
		audit.WithIDGuard(audit.NewIDGuard(cacheStorage, eventRepo)),
	)
	audit.Initialize(service)

	return &ingestion{
		db:           db,
		redisStorage: redisStorage,
		cacheStorage: cacheStorage,
		signer:       signer,
		writer:       eventWriter,
		registry:     registry,
		service:      service,
	}
}

// commandWriterConfig gives a one-shot command its own fallback log and
// journal so it never replays or compacts the files of a running server.
func commandWriterConfig(cfg *config.Config, command string) {
	prefixed := func(path string) string {
		return filepath.Join(filepath.Dir(path), command+"."+filepath.Base(path))
	}
	cfg.Writer.FallbackPath = prefixed(cfg.Writer.FallbackPath)
	cfg.Writer.JournalPath = prefixed(cfg.Writer.JournalPath)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func verify(ctx *cli.Context) error {
	cfg := mustLoadConfig(ctx)
	db := mustInitDatabase(cfg.MySQL)
	signer, err := chain.NewSigner(cfg.MasterKey)
	if err != nil {
		return err
	}
	engine := query.NewEngine(db, signer, cfg.Chain.Name, nil)

	var reports []*query.IntegrityReport
	if name := ctx.String(chainFlag.Name); name != "" {
		r, err := engine.VerifyIntegrity(ctx.Context, query.Range{
			Chain:   name,
			FromSeq: ctx.Uint64(fromSeqFlag.Name),
			ToSeq:   ctx.Uint64(toSeqFlag.Name),
		})
		if err != nil {
			return err
		}
		reports = append(reports, r)
	} else {
		var err error
		if reports, err = engine.VerifyAll(ctx.Context); err != nil {
			return err
		}
	}

	if err := printJSON(reports); err != nil {
		return err
	}
	for _, r := range reports {
		if !r.Valid {
			return cli.Exit(fmt.Sprintf("chain %s has %d integrity violations", r.Chain, len(r.Violations)), 2)
		}
	}
	return nil
}

func sweep(ctx *cli.Context) error {
	cfg := mustLoadConfig(ctx)
	commandWriterConfig(cfg, ctx.Command.Name)
	in := mustInitIngestion(ctx.Context, cfg, 0, retention.AuditCategory)
	defer in.close(cfg.Writer.WriteTimeout)

	manager := mustInitRetentionManager(ctx.Context, cfg.Retention, in.db, in.service)
	result, err := manager.RunOnce(ctx.Context)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func report(ctx *cli.Context) error {
	cfg := mustLoadConfig(ctx)
	commandWriterConfig(cfg, ctx.Command.Name)
	in := mustInitIngestion(ctx.Context, cfg, 0, query.AuditCategory)
	defer in.close(cfg.Writer.WriteTimeout)

	engine := query.NewEngine(in.db, in.signer, cfg.Chain.Name, in.service)
	start, end := ctx.Timestamp(startFlag.Name), ctx.Timestamp(endFlag.Name)
	r, err := engine.GenerateReport(ctx.Context, ctx.String(frameworkFlag.Name), *start, *end, "")
	if err != nil {
		return err
	}
	return printJSON(r)
}

func listPolicies(ctx *cli.Context) error {
	cfg := mustLoadConfig(ctx)
	mustInitDatabase(cfg.MySQL)
	policies, err := retention.NewPolicyRepository(dbquery.Q).List(ctx.Context, false)
	if err != nil {
		return err
	}
	for _, p := range policies {
		scope := []string{}
		if p.EventType != "" {
			scope = append(scope, "type="+string(p.EventType))
		}
		if p.Category != "" {
			scope = append(scope, "category="+p.Category)
		}
		if len(scope) == 0 {
			scope = append(scope, "*")
		}
		fmt.Printf("%-24s priority=%-4d active=%-5t archive=%dd delete=%dd hold_override=%t scope=%s\n",
			p.Name, p.Priority, p.Active, p.ArchiveAfterDays, p.DeleteAfterDays, p.LegalHoldOverride, strings.Join(scope, ","))
	}
	return nil
}

func issueToken(ctx *cli.Context) error {
	cfg := mustLoadConfig(ctx)
	roles := ctx.StringSlice(rolesFlag.Name)
	if len(roles) == 0 {
		return errors.New("at least one role is required")
	}
	token, err := middlewares.IssueToken(middlewares.AuthConfig{
		Secret: []byte(cfg.APIAuth.Secret),
		Issuer: cfg.APIAuth.Issuer,
	}, ctx.String(subjectFlag.Name), roles, ctx.Duration(ttlFlag.Name))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func run(ctx *cli.Context) error {
	config := mustLoadConfig(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Initialize(metrics.NewPrometheusMetrics(registry))

	globalVars := fiber.Map{
		"siteName": config.SiteName,
	}
	if err := render.Initialize(globalVars, config.TemplateDir); err != nil {
		slog.Error("Failed to load templates", "error", err)
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := mustInitIngestion(sigCtx, config, params.ChainLockWait)
	defer in.close(config.Writer.WriteTimeout)

	// detection
	criticalRepo := detector.NewRepository(dbquery.Q)
	dispatcher := mustInitAlertDispatcher(config.Alerts)
	det := detector.New(
		config.Detector,
		detector.DefaultRules(config.Detector, in.cacheStorage, time.Now),
		criticalRepo,
		dispatcher,
	)
	in.service.AddObserver(det)
	det.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), config.Alerts.Timeout)
		defer cancel()
		if err := det.Stop(stopCtx); err != nil {
			slog.Warn("Detector did not drain in time", "error", err)
		}
	}()

	// services
	var (
		engine           = query.NewEngine(in.db, in.signer, config.Chain.Name, in.service)
		investigations   = detector.NewInvestigations(criticalRepo, in.service, time.Now)
		retentionManager = mustInitRetentionManager(sigCtx, config.Retention, in.db, in.service)
	)
	go retentionManager.Run(sigCtx)

	router := fiber.New(fiber.Config{
		Prefork:           false,
		CaseSensitive:     true,
		BodyLimit:         params.ServerBodyLimit,
		IdleTimeout:       params.ServerIdleTimeout,
		ReadTimeout:       params.ServerReadTimeout,
		WriteTimeout:      params.ServerWriteTimeout,
		Views:             render.NewViewEngine(config.TemplateDir),
		PassLocalsToViews: true,
		ErrorHandler:      middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Session-ID, X-Correlation-ID",
	}))
	router.Use(middlewares.InjectGlobalVars(globalVars))

	api.SetupRoutes(
		router,
		middlewares.AuthConfig{
			Secret: []byte(config.APIAuth.Secret),
			Issuer: config.APIAuth.Issuer,
		},
		middlewares.RateLimiter(in.redisStorage),
		api.Handlers{
			Events:         api.NewEventHandler(in.service, engine, retentionManager),
			Integrity:      api.NewIntegrityHandler(engine),
			Reports:        api.NewReportHandler(engine),
			CriticalEvents: api.NewCriticalEventHandler(investigations),
			Retention:      api.NewRetentionHandler(retentionManager),
		},
	)

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, config.HealthCheckAddr, registry, in.redisStorage.Conn(), in.db)
	defer func() {
		term()
		<-done
	}()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- router.Listen(config.ListenAddr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-sigCtx.Done():
		slog.Info("Shutting down")
	}
	return router.ShutdownWithTimeout(params.ServerIdleTimeout)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
