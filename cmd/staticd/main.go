package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caiflower/staticweb/global"
	"github.com/caiflower/staticweb/global/config"
	"github.com/caiflower/staticweb/global/env"
	"github.com/caiflower/staticweb/pkg/logger"
	"github.com/caiflower/staticweb/pkg/tools"
	"github.com/caiflower/staticweb/web/fileserver"
	"github.com/caiflower/staticweb/web/server"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configFile := flag.String("config", "", "config file, default $CONFIG_PATH/"+config.DefaultConfigFile)
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	root := flag.String("root", "", "document root, overrides server.documentRoot")
	flag.Parse()

	if err := run(*configFile, *addr, *root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile, addr, root string) error {
	cfg := &config.DefaultConfig{}
	var err error
	switch {
	case configFile != "":
		err = config.LoadConfig(configFile, cfg)
	case tools.FileExist(filepath.Join(env.ConfigPath, config.DefaultConfigFile)):
		err = config.LoadDefaultConfig(cfg)
	default:
		err = cfg.ServerConfig.SetDefaults()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.ServerConfig.Addr = addr
	}
	if root != "" {
		cfg.ServerConfig.DocumentRoot = root
	}

	logger.InitLogger(&cfg.LoggerConfig)
	logger.Info("staticweb config: %s", tools.ToJson(cfg.ServerConfig))

	metric, err := fileserver.NewHttpMetric(cfg.ServerConfig.Name, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	dispatcher, err := fileserver.NewDispatcher(&fileserver.ServerConfig{
		DocumentRoot: cfg.ServerConfig.DocumentRoot,
		RedirectMap:  cfg.ServerConfig.Redirects,
	},
		fileserver.WithRenderer(fileserver.NewCachedRenderer(fileserver.NewMarkdownRenderer(), cfg.ServerConfig.MarkdownCacheExpire)),
		fileserver.WithMetric(metric),
	)
	if err != nil {
		return err
	}
	logger.Info("serving %s", dispatcher.DocumentRoot())

	rm := global.DefaultResourceManager
	rm.AddDaemonWithOrder(server.NewServer(&cfg.ServerConfig, dispatcher), 100)
	if cfg.ServerConfig.MetricsAddr != "" {
		rm.AddDaemonWithOrder(server.NewMetricsServer(cfg.ServerConfig.MetricsAddr, prometheus.DefaultGatherer, nil), 50)
	}
	rm.AddWithOrder(logger.DefaultLogger(), 0)

	return rm.Run(context.Background())
}
