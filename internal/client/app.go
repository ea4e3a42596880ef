// Package client wires the halsync core components together: transport,
// identifier index, request tracker, object cache, sync buffer, read-model
// builder, snapshot store and the background flush job.
//
// The stores are process-wide singletons with an explicit lifecycle: they
// are constructed once in NewApp and shared by reference; nothing reaches
// into another component's storage directly.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/halsync/internal/adapter"
	"github.com/MKhiriev/halsync/internal/cache"
	"github.com/MKhiriev/halsync/internal/config"
	"github.com/MKhiriev/halsync/internal/index"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/remotedata"
	"github.com/MKhiriev/halsync/internal/serializer"
	"github.com/MKhiriev/halsync/internal/service"
	"github.com/MKhiriev/halsync/internal/store"
	"github.com/MKhiriev/halsync/internal/syncbuf"
	"github.com/MKhiriev/halsync/internal/tracker"
	"github.com/MKhiriev/halsync/internal/workers"
)

// App owns the shared core of the data-access layer and hands out typed
// data services over it.
type App struct {
	cfg    *config.StructuredConfig
	logger *logger.Logger

	codec     *serializer.Codec
	transport adapter.Transport
	index     *index.Index
	cache     *cache.Cache
	tracker   *tracker.Tracker
	buffer    *syncbuf.Buffer
	builder   *remotedata.Builder
	job       syncbuf.FlushJob
	snapshots store.SnapshotStore
}

// NewApp assembles the core from cfg and the host-registered entity
// schemas. notifier may be nil when the host has no notification surface.
// When a snapshot path is configured, the previous cache state (pending
// patches included) is restored before anything else runs.
func NewApp(cfg *config.StructuredConfig, registry *serializer.Registry, notifier adapter.Notifier, log *logger.Logger) (*App, error) {
	codec := serializer.NewCodec(registry)

	transport := adapter.NewHTTPTransport(adapter.HTTPTransportConfig{
		BaseURL: cfg.Adapter.BaseURL,
		Timeout: cfg.Adapter.RequestTimeout,
	}, log)
	if cfg.Adapter.Token != "" {
		if holder, ok := transport.(adapter.TokenHolder); ok {
			holder.SetToken(cfg.Adapter.Token)
		}
	}

	idx := index.NewIndex(log)
	objectCache := cache.NewCache(log)

	trk := tracker.NewTracker(transport, codec, idx, log)
	trk.SetResponseSink(service.NewCacheSink(objectCache, idx, notifier, log))

	buffer := syncbuf.NewBuffer(objectCache, trk, notifier, syncbuf.RetryConfig{
		MaxAttempts:    cfg.Sync.MaxAttempts,
		InitialBackoff: cfg.Sync.InitialBackoff,
	}, log)

	app := &App{
		cfg:       cfg,
		logger:    log,
		codec:     codec,
		transport: transport,
		index:     idx,
		cache:     objectCache,
		tracker:   trk,
		buffer:    buffer,
		builder:   remotedata.NewBuilder(trk, objectCache, codec, log),
		job:       syncbuf.NewFlushJob(buffer, cfg.Sync.FlushInterval),
	}

	if cfg.Cache.SnapshotPath != "" {
		snapshots, err := store.NewSnapshotStore(cfg.Cache.SnapshotPath, log)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		entries, err := snapshots.Load(context.Background())
		if err != nil {
			_ = snapshots.Close()
			return nil, fmt.Errorf("load cache snapshot: %w", err)
		}
		objectCache.Restore(entries)
		app.snapshots = snapshots
		log.Info().Int("entries", len(entries)).Msg("cache snapshot restored")
	}

	return app, nil
}

// DataService returns the outward service for one entity kind.
func (a *App) DataService(kind, collectionAddress string) service.DataService {
	return service.NewDataService(
		service.Config{
			Kind:              kind,
			CollectionAddress: collectionAddress,
			ReadTTL:           a.cfg.Cache.ReadTTL,
		},
		a.tracker, a.cache, a.index, a.buffer, a.builder, a.codec, a.logger,
	)
}

// Start launches the background workers, currently the periodic flush job.
func (a *App) Start() {
	workers.NewWorkers(a.job).Run()
}

// Shutdown flushes every dirty address, persists the cache snapshot if one
// is configured, and stops the background job. ctx bounds the final flush.
func (a *App) Shutdown(ctx context.Context) error {
	a.job.Stop()

	flushCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := a.buffer.FlushAll(flushCtx); err != nil {
		a.logger.Err(err).Msg("final flush incomplete, patches retained in snapshot")
	}

	if a.snapshots == nil {
		return nil
	}
	if err := a.snapshots.Save(ctx, a.cache.Export()); err != nil {
		_ = a.snapshots.Close()
		return fmt.Errorf("save cache snapshot: %w", err)
	}
	return a.snapshots.Close()
}
