package main // Entry point package

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Basiiii/SmartStay-sub000/internal/booking"
	"github.com/Basiiii/SmartStay-sub000/internal/config"
	"github.com/Basiiii/SmartStay-sub000/internal/events"
	"github.com/Basiiii/SmartStay-sub000/internal/store"
)

func main() {
	// Only loads a .env file when one is present; real deployments set
	// the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	evCfg := config.LoadEventsConfig()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("open snapshot store")
	}

	ctx := context.Background()
	snap, err := st.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("load snapshot")
	}

	engine, err := booking.FromSnapshot(snap, buildSink(evCfg, log), log)
	if err != nil {
		log.WithError(err).Fatal("restore engine state")
	}
	log.WithFields(logrus.Fields{
		"env":            cfg.Env,
		"store":          cfg.StoreBackend,
		"owners":         engine.Owners().Len(),
		"clients":        engine.Clients().Len(),
		"accommodations": engine.Accommodations().Len(),
		"reservations":   len(engine.Reservations()),
	}).Info("booking engine restored")

	if evCfg.Enabled && evCfg.AuditConsumer {
		go func() {
			if err := events.StartAuditConsumer(evCfg.BrokerURL, evCfg.Queue, evCfg.AuditLogPath, log); err != nil {
				log.WithError(err).Error("audit consumer stopped")
			}
		}()
	}

	stop, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	log.Info("booking engine running; interrupt to snapshot and exit")
	<-stop.Done()

	saveCtx, cancelSave := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSave()
	if err := st.Save(saveCtx, engine.Snapshot()); err != nil {
		log.WithError(err).Error("save snapshot")
		os.Exit(1)
	}
	log.Info("snapshot saved")
}

// openStore selects the snapshot backend. The MySQL backend also makes
// sure the schema exists so a fresh database works without manual
// migration.
func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return store.NewFile(cfg.SnapshotPath), nil
	case "mysql":
		db, err := store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		m := store.NewMySQL(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// buildSink assembles the telemetry fan-out: the structured log always
// receives events; the broker queue and the Redis live channel join in
// when telemetry is enabled and reachable.
func buildSink(cfg config.EventsConfig, log *logrus.Logger) events.Sink {
	sinks := []events.Sink{events.NewLogSink(log)}
	if cfg.Enabled {
		sinks = append(sinks, events.NewAMQPSink(cfg.BrokerURL, cfg.Queue, log))
		if rdb := config.NewRedisClient(); rdb != nil {
			sinks = append(sinks, events.NewRedisSink(rdb, cfg.RedisChannel))
		} else {
			log.Warn("redis unreachable; live event channel disabled")
		}
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return events.NewMultiSink(sinks...)
}
