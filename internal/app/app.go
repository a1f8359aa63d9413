package app

import (
	"os"
	"path"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lytortech/vendoradmin/config"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/querycache"
	"github.com/lytortech/vendoradmin/internal/session"
)

// Application wires the dashboard together: one session, one gateway client
// against the upstream service, one query cache and the background jobs.
type Application struct {
	appConfig *config.AppConfig
	bus       EventBus.Bus
	sess      *session.Session
	gw        *gateway.Client
	cache     *querycache.Cache
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ GatewayProvider   = (*Application)(nil)
	_ CacheProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig  { return a.appConfig }
func (a *Application) Session() *session.Session  { return a.sess }
func (a *Application) Gateway() *gateway.Client   { return a.gw }
func (a *Application) Cache() *querycache.Cache   { return a.cache }
func (a *Application) Scheduler() *cron.Cron      { return a.sched }
func (a *Application) Bus() EventBus.Bus          { return a.bus }

// OverrideGateway replaces the upstream client (used in tests).
func (a *Application) OverrideGateway(gw *gateway.Client) {
	a.gw = gw
	a.sess = gw.Session()
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	a.bus = EventBus.New()

	// Credential store under the workdir convention
	a.sess, err = session.Open(path.Join(cfg.System.Workdir, "session.db"), a.bus)
	if err != nil {
		return err
	}
	zap.S().Infof("Session store ready, authenticated: %v", a.sess.Authenticated())

	a.gw = gateway.New(cfg.Upstream.BaseURL, a.sess, nil)
	a.cache = querycache.New(time.Duration(cfg.Cache.TTL)*time.Second, a.bus)

	// Expiring the session invalidates every cached read; the next login
	// starts from fresh data.
	if err := a.sess.OnExpired(func() { a.cache.Flush() }); err != nil {
		return err
	}

	a.initJob()
	return nil
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.sess != nil {
		_ = a.sess.Close()
	}
	_ = zap.L().Sync()
}
