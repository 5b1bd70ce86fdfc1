package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/casper-tapcp/tapcpd/internal/config"
	"github.com/casper-tapcp/tapcpd/pkg/catalog"
	"github.com/casper-tapcp/tapcpd/pkg/codec"
	"github.com/casper-tapcp/tapcpd/pkg/engine"
	"github.com/casper-tapcp/tapcpd/pkg/membus"
	"github.com/casper-tapcp/tapcpd/pkg/monitor"
	"github.com/casper-tapcp/tapcpd/pkg/resolver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TFTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	return runServeWithCounters(cfg, monitor.New())
}

// runServeWithCounters is runServe with the monitor.Counters supplied by
// the caller, so `tapcpd monitor` can watch the same instance its
// embedded server updates.
func runServeWithCounters(cfg *config.Config, counters *monitor.Counters) error {
	src, closeCatalog, err := buildCatalogSource(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("catalog source: %w", err)
	}
	defer closeCatalog()

	if cfg.HelpBannerPath != "" {
		banner, err := os.ReadFile(cfg.HelpBannerPath)
		if err != nil {
			return fmt.Errorf("read help banner: %w", err)
		}
		codec.HelpBanner = banner
	}

	bus := membus.NewMemoryBus(cfg.FPGA.Size)
	cpuMem := membus.NewMemoryBus(cfg.CPU.Size)

	r := &resolver.Resolver{
		Catalog: src,
		FPGA:    &membus.FPGA{Bus: bus, Base: cfg.FPGA.Base, Size: cfg.FPGA.Size},
		CPU:     &membus.CPU{Reader: cpuMem, Base: cfg.CPU.Base, Size: cfg.CPU.Size},
		Metrics: counters,
	}

	logger := log.New(os.Stderr, "tapcpd: ", log.LstdFlags)
	srv := engine.New(r)
	srv.Logger = logger
	srv.Metrics = counters

	var metricsSrv *http.Server
	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", counters.PrometheusHandler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			logger.Printf("metrics listening on %s", cfg.Metrics.Listen)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("metrics server error: %v", err)
			}
		}()
	}

	tftpSrv := srv.TFTPServer()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Println("shutdown signal received")
		tftpSrv.Shutdown()
		if metricsSrv != nil {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = metricsSrv.Shutdown(shutCtx)
		}
	}()

	logger.Printf("serving TFTP on %s (catalog backend=%s)", cfg.Listen, cfg.Catalog.Backend)
	return tftpSrv.ListenAndServe(cfg.Listen)
}

// buildCatalogSource constructs the catalog.Source named by cc.Backend. It
// returns a close func that releases any backend resources (an etcd
// client); callers must always call it, even when it is a no-op.
func buildCatalogSource(cc config.CatalogConfig) (catalog.Source, func(), error) {
	switch cc.Backend {
	case "", "memory":
		var raw []byte
		if cc.File != "" {
			data, err := os.ReadFile(cc.File)
			if err != nil {
				return nil, func() {}, fmt.Errorf("read catalog file %s: %w", cc.File, err)
			}
			raw = data
		}
		return catalog.NewMemorySource(raw), func() {}, nil

	case "etcd":
		if len(cc.EtcdEndpoints) == 0 {
			return nil, func() {}, fmt.Errorf("etcd catalog backend requires catalog.etcd_endpoints")
		}
		if cc.Key == "" {
			return nil, func() {}, fmt.Errorf("etcd catalog backend requires catalog.key")
		}
		client, err := clientv3.New(clientv3.Config{
			Endpoints:   cc.EtcdEndpoints,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect etcd %v: %w", cc.EtcdEndpoints, err)
		}
		return catalog.NewEtcdSource(client, cc.Key), func() { _ = client.Close() }, nil

	default:
		return nil, func() {}, fmt.Errorf("unsupported catalog backend %q (supported: memory, etcd)", cc.Backend)
	}
}
