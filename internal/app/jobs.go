package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	interval := a.appConfig.Cache.SweepInterval
	if interval <= 0 {
		interval = 300
	}
	if _, err := a.sched.AddFunc(fmt.Sprintf("@every %ds", interval), func() {
		a.SchedCacheSweepTask()
	}); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedCacheSweepTask drops expired query cache entries so a long-lived
// process never serves data older than the TTL nor accumulates dead keys.
func (a *Application) SchedCacheSweepTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	before := a.cache.Len()
	a.cache.Sweep()
	zap.L().Debug("query cache sweep",
		zap.Int("before", before),
		zap.Int("after", a.cache.Len()))
}
