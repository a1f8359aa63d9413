package app

import (
	"github.com/robfig/cron/v3"

	"github.com/lytortech/vendoradmin/config"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/querycache"
	"github.com/lytortech/vendoradmin/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SessionProvider provides the upstream credential context
type SessionProvider interface {
	Session() *session.Session
}

// GatewayProvider provides the typed upstream client
type GatewayProvider interface {
	Gateway() *gateway.Client
}

// CacheProvider provides the query cache
type CacheProvider interface {
	Cache() *querycache.Cache
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	SessionProvider
	GatewayProvider
	CacheProvider
	SchedulerProvider
}
