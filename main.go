package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/gofiber/template/html/v2"
	"github.com/ngocbd/coopfarm/internal/accounts"
	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/internal/common"
	"github.com/ngocbd/coopfarm/internal/config"
	"github.com/ngocbd/coopfarm/internal/coop"
	"github.com/ngocbd/coopfarm/internal/handlers/web"
	"github.com/ngocbd/coopfarm/internal/idle"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
	"github.com/ngocbd/coopfarm/internal/render"
	"github.com/ngocbd/coopfarm/model"
	"github.com/ngocbd/coopfarm/params"
	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	app       *cli.App
	gitCommit string
	gitDate   string
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
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "coopfarm - agricultural cooperative management server"
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

func mustInitDatabase(dbConfig config.MySQLConfig, debug bool) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
		Logger: audit.NewSlowQueryLogger(params.SlowQueryThreshold, debug),
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if dbConfig.ReplicaDsn != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{mysql.Open(dbConfig.ReplicaDsn)},
		}))
		if err != nil {
			slog.Error("Failed to register read replica", "error", err)
			os.Exit(1)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if dbConfig.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
		}
		if dbConfig.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
		}
		if dbConfig.ConnMaxIdleTime > 0 {
			sqlDB.SetConnMaxIdleTime(time.Duration(dbConfig.ConnMaxIdleTime) * time.Second)
		}
		if dbConfig.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
		}
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitHtmlEngine(templateDir string) *html.Engine {
	var htmlEngine *html.Engine
	if templateDir != "" {
		htmlEngine = html.NewFileSystem(http.Dir(templateDir), ".html")
	} else {
		renderFS, _ := fs.Sub(templateFS, "templates")
		htmlEngine = html.NewFileSystem(http.FS(renderFS), ".html")
	}
	return htmlEngine
}

func setupWebRoutes(
	router fiber.Router,
	staticDir string,
	sessionConfig sessions.Config,
	timeoutConfig middlewares.TimeoutConfig,
	accountService *accounts.AccountService,
	coopService *coop.CoopService,
	auditRepo audit.AuditEventRepository) {

	// handlers
	var (
		loginHandler     = web.NewLoginHandler(accountService)
		dashboardHandler = web.NewDashboardHandler(coopService, auditRepo)
		zoneHandler      = web.NewZoneHandler(coopService)
		unitHandler      = web.NewUnitHandler(coopService)
		memberHandler    = web.NewMemberHandler(coopService)
		reportHandler    = web.NewReportHandler(coopService)
	)

	router.Static("/static", staticDir)
	router.Use(sessions.New(sessionConfig))
	router.Use(middlewares.DiagnosticsInterceptor())
	router.Use(middlewares.EnforceTimeout(timeoutConfig))

	router.Get("/", loginHandler.GetHome)
	router.Get("/login", loginHandler.GetLogin)
	router.Post("/login", loginHandler.PostLogin)
	router.Post("/logout", loginHandler.PostLogout)
	router.Post("/api/login", loginHandler.PostLogin)
	router.Post("/api/logout", loginHandler.PostLogout)

	viewer := middlewares.RequireAuth()
	unitManager := middlewares.RequireRole(model.RoleUnitLeader)
	zoneManager := middlewares.RequireRole(model.RoleZoneLeader)

	router.Get("/dashboard", viewer, dashboardHandler.GetDashboard)
	router.Get("/api/dashboard", viewer, dashboardHandler.GetDashboard)
	router.Get("/api/session", viewer, loginHandler.GetSession)

	// Route guards check the role rank only; per-record ownership is decided
	// inside the coop service.
	router.Get("/zones", viewer, zoneHandler.GetZones)
	router.Post("/zones", zoneManager, zoneHandler.PostZone)
	router.Post("/zones/:id", zoneManager, zoneHandler.PostZoneUpdate)
	router.Post("/zones/:id/delete", zoneManager, zoneHandler.PostZoneDelete)
	router.Get("/api/zones", viewer, zoneHandler.GetZones)
	router.Post("/api/zones", zoneManager, zoneHandler.PostZone)
	router.Put("/api/zones/:id", zoneManager, zoneHandler.PostZoneUpdate)
	router.Delete("/api/zones/:id", zoneManager, zoneHandler.PostZoneDelete)

	router.Get("/units", viewer, unitHandler.GetUnits)
	router.Post("/units", zoneManager, unitHandler.PostUnit)
	router.Post("/units/:id", unitManager, unitHandler.PostUnitUpdate)
	router.Post("/units/:id/delete", zoneManager, unitHandler.PostUnitDelete)
	router.Get("/api/units", viewer, unitHandler.GetUnits)
	router.Post("/api/units", zoneManager, unitHandler.PostUnit)
	router.Put("/api/units/:id", unitManager, unitHandler.PostUnitUpdate)
	router.Delete("/api/units/:id", zoneManager, unitHandler.PostUnitDelete)

	router.Get("/members", viewer, memberHandler.GetMembers)
	router.Post("/members", unitManager, memberHandler.PostMember)
	router.Post("/members/:id", unitManager, memberHandler.PostMemberUpdate)
	router.Post("/members/:id/delete", unitManager, memberHandler.PostMemberDelete)
	router.Get("/api/members", viewer, memberHandler.GetMembers)
	router.Post("/api/members", unitManager, memberHandler.PostMember)
	router.Put("/api/members/:id", unitManager, memberHandler.PostMemberUpdate)
	router.Delete("/api/members/:id", unitManager, memberHandler.PostMemberDelete)

	router.Get("/reports", viewer, reportHandler.GetReports)
	router.Post("/reports", unitManager, reportHandler.PostReport)
	router.Post("/reports/:id", unitManager, reportHandler.PostReportUpdate)
	router.Post("/reports/:id/delete", unitManager, reportHandler.PostReportDelete)
	router.Get("/api/reports", viewer, reportHandler.GetReports)
	router.Post("/api/reports", unitManager, reportHandler.PostReport)
	router.Put("/api/reports/:id", unitManager, reportHandler.PostReportUpdate)
	router.Delete("/api/reports/:id", unitManager, reportHandler.PostReportDelete)
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	debug := cfg.Debug || ctx.IsSet(debugFlag.Name)
	mustInitLogger(debug)

	globalVars := fiber.Map{
		"siteName": cfg.SiteName,
		"baseURL":  cfg.BaseURL,
	}
	if err := render.Initialize(globalVars, cfg.TemplateDir); err != nil {
		slog.Error("Could not initialize renderer", "error", err)
		return err
	}

	db := mustInitDatabase(cfg.MySQL, debug)

	var sessionStorage fiber.Storage
	var redisStorage *redis.Storage
	if cfg.Redis.URL != "" {
		redisStorage = redis.New(redis.Config{
			URL:           cfg.Redis.URL,
			PoolSize:      cfg.Redis.PoolSize,
			IsClusterMode: cfg.Redis.ClusterMode,
		})
		sessionStorage = redisStorage
	} else {
		sessionStorage = memory.New()
	}

	// repositories
	var (
		userRepo         = accounts.NewUserRepository(db)
		loginSessionRepo = accounts.NewLoginSessionRepository(db)
		auditRepo        = audit.NewAuditEventRepository(db)
		zoneRepo         = coop.NewZoneRepository(db)
		unitRepo         = coop.NewUnitRepository(db)
		memberRepo       = coop.NewMemberRepository(db)
		reportRepo       = coop.NewReportRepository(db)
	)
	audit.Initialize(auditRepo)

	// services
	var (
		accountService = accounts.NewAccountService(userRepo, loginSessionRepo)
		coopService    = coop.NewCoopService(zoneRepo, unitRepo, memberRepo, reportRepo)
	)

	policy := idle.Policy{
		Timeout:     cfg.Session.Timeout(),
		WarningLead: cfg.Session.WarningLead(),
	}

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		Views:         mustInitHtmlEngine(cfg.TemplateDir),
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	router.Use(middlewares.InjectGlobalVars(globalVars))

	setupWebRoutes(
		router,
		cfg.StaticDir,
		sessions.Config{
			Storage:        sessionStorage,
			CookieMaxAge:   params.SessionCookieMaxAge,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHttpOnly: cfg.Session.CookieHttpOnly,
			CookieName:     cfg.Session.CookieName,
		},
		middlewares.TimeoutConfig{
			Policy:      policy,
			WriteWindow: params.ActivityWriteWindow,
			Accounts:    accountService,
		},
		accountService,
		coopService,
		auditRepo,
	)

	serverCtx, term := context.WithCancel(ctx.Context)
	defer term()

	sweeper := idle.NewSweeper(policy, cfg.Session.CheckInterval(), loginSessionRepo)
	go sweeper.Run(serverCtx)

	done := make(chan struct{})
	var redisConn goredis.UniversalClient
	if redisStorage != nil {
		redisConn = redisStorage.Conn()
	}
	go common.StartHealthCheckServer(serverCtx, done, redisConn, db)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
