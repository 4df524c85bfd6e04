// Command gumped is the DNS server daemon: it wires the zone catalog,
// record cache, optional blocklist, and recursive resolver behind a
// single UDP transport, per spec.md §5/§6.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hendrikto/gumped/internal/dns/blocklist"
	"github.com/hendrikto/gumped/internal/dns/cache"
	"github.com/hendrikto/gumped/internal/dns/clock"
	"github.com/hendrikto/gumped/internal/dns/config"
	"github.com/hendrikto/gumped/internal/dns/dispatch"
	"github.com/hendrikto/gumped/internal/dns/log"
	"github.com/hendrikto/gumped/internal/dns/resolver"
	"github.com/hendrikto/gumped/internal/dns/transport"
	"github.com/hendrikto/gumped/internal/dns/zone"
)

const (
	appName = "gumped"

	zoneApex        = "gumpe."
	zoneFilePath    = "./zone"
	cacheFilePath   = "./cache"
	blocklistDBPath = "./blocklist.db"
	upstreamTimeout = 5 * time.Second
)

// Application holds the long-lived components a running server needs to
// start and stop cleanly.
type Application struct {
	config    *config.AppConfig
	cache     *cache.Cache // nil when caching is disabled
	blocklist *blocklist.Blocklist
	transport *transport.UDPTransport
	handler   *dispatch.ServerContext
}

func main() {
	cmd := &cobra.Command{
		Use:          appName,
		Short:        "gumped is a recursive and authoritative DNS resolver/server",
		SilenceUsage: true,
		RunE:         runServer,
	}
	config.RegisterFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return fmt.Errorf("logging configuration error: %w", err)
	}

	log.Info(map[string]any{
		"env":        cfg.Env,
		"log_level":  cfg.LogLevel,
		"port":       cfg.Port,
		"caching":    cfg.Caching,
		"cache_size": cfg.CacheSize,
	}, "starting gumped")

	app, err := buildApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info(nil, "gumped stopped gracefully")
	return nil
}

// buildApplication constructs the catalog, cache, blocklist, resolver,
// dispatcher, and transport from cfg.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	z, err := zone.LoadMasterFile(zoneFilePath, zoneApex)
	if err != nil {
		return nil, fmt.Errorf("loading zone file: %w", err)
	}
	catalog := zone.NewCatalog()
	catalog.AddZone(z)

	var recordCache *cache.Cache
	if cfg.Caching {
		recordCache, err = cache.New(cfg.CacheSize, cfg.TTL, clock.RealClock{})
		if err != nil {
			return nil, fmt.Errorf("building cache: %w", err)
		}
		recordCache.Load(cacheFilePath)
		log.Info(map[string]any{"entries": recordCache.Len()}, "record cache loaded")
	}

	var bl *blocklist.Blocklist
	if cfg.BlocklistPath != "" {
		// GUMPED_BLOCKLIST_PATH names a plain newline-delimited rule
		// list; it's re-parsed into the bbolt store on every startup,
		// so the list stays the single source of truth.
		bl, err = blocklist.Load(blocklistDBPath, []string{cfg.BlocklistPath}, nil, cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("loading blocklist: %w", err)
		}
		log.Info(map[string]any{"path": cfg.BlocklistPath}, "blocklist loaded")
	}

	res := resolver.New(resolver.Options{
		Querier: resolver.NewUDPQuerier(),
		Cache:   recordCache,
		Timeout: upstreamTimeout,
		Logger:  log.GetLogger(),
	})

	var dispatchBlocklist dispatch.Blocklist
	if bl != nil {
		dispatchBlocklist = bl
	}
	serverCtx := dispatch.NewServerContext(catalog, recordCache, res, dispatchBlocklist)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	udpTransport := transport.NewUDPTransport(addr, log.GetLogger())

	return &Application{
		config:    cfg,
		cache:     recordCache,
		blocklist: bl,
		transport: udpTransport,
		handler:   serverCtx,
	}, nil
}

// Run starts the UDP transport and blocks until ctx is cancelled, then
// stops the transport and flushes the cache (§5's shutdown sequence:
// stop accepting, close the socket, let in-flight handlers finish, flush
// the cache).
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx, app.handler); err != nil {
		return fmt.Errorf("starting transport: %w", err)
	}

	log.Info(map[string]any{"address": app.transport.Address()}, "gumped listening")

	<-ctx.Done()
	log.Info(nil, "shutdown initiated")

	if err := app.transport.Stop(); err != nil {
		log.Error(map[string]any{"error": err}, "error stopping transport")
	}

	if app.cache != nil {
		app.cache.Save(cacheFilePath)
		log.Info(map[string]any{"entries": app.cache.Len()}, "record cache flushed")
	}
	if app.blocklist != nil {
		if err := app.blocklist.Close(); err != nil {
			log.Error(map[string]any{"error": err}, "error closing blocklist")
		}
	}
	return nil
}
