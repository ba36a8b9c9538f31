// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command ucadapterd serves the CloudAdapter gRPC service backed by an Azure
// tenant and subscription.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"
	"github.com/juju/lumberjack/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unicloud/uc-adapter-azure/internal/azure"
	"github.com/unicloud/uc-adapter-azure/internal/config"
	"github.com/unicloud/uc-adapter-azure/internal/cost"
	"github.com/unicloud/uc-adapter-azure/internal/directory"
	"github.com/unicloud/uc-adapter-azure/internal/identity"
	"github.com/unicloud/uc-adapter-azure/internal/limits"
	"github.com/unicloud/uc-adapter-azure/internal/rbac"
	"github.com/unicloud/uc-adapter-azure/internal/resources"
	"github.com/unicloud/uc-adapter-azure/internal/server"
)

var logger = loggo.GetLogger("uc.adapter.cmd")

// commandLine holds the flags overriding the environment.
type commandLine struct {
	port      int
	logConfig string
}

func parseCommandLine(args []string, stderr io.Writer) (commandLine, error) {
	var cl commandLine
	flags := gnuflag.NewFlagSet("ucadapterd", gnuflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVar(&cl.port, "port", 0, "TCP port to serve gRPC on (overrides "+config.PortKey+")")
	flags.StringVar(&cl.logConfig, "logging-config", "", "loggo configuration (overrides "+config.LogConfigKey+")")
	if err := flags.Parse(true, args); err != nil {
		return commandLine{}, errors.Trace(err)
	}
	if extra := flags.Args(); len(extra) > 0 {
		return commandLine{}, errors.Errorf("unrecognized arguments: %v", extra)
	}
	return cl, nil
}

// applyCommandLine overrides cfg with the flags that were set.
func applyCommandLine(cfg *config.Config, cl commandLine) error {
	if cl.port != 0 {
		cfg.Port = cl.port
	}
	if cl.logConfig != "" {
		cfg.LogConfig = cl.logConfig
	}
	return errors.Trace(cfg.Validate())
}

func setupLogging(cfg *config.Config) error {
	if cfg.LogFile != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			Compress:   true,
		}
		if err := loggo.RegisterWriter("file", loggo.NewSimpleWriter(writer, loggo.DefaultFormatter)); err != nil {
			return errors.Annotate(err, "registering file writer")
		}
	}
	return errors.Annotatef(loggo.ConfigureLoggers(cfg.LogConfig), "configuring loggers %q", cfg.LogConfig)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ucadapterd: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cl, err := parseCommandLine(args, os.Stderr)
	if err != nil {
		return errors.Trace(err)
	}
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return errors.Trace(err)
	}
	if err := applyCommandLine(cfg, cl); err != nil {
		return errors.Trace(err)
	}
	if err := setupLogging(cfg); err != nil {
		return errors.Trace(err)
	}

	srv, err := newServer(cfg, clock.WallClock)
	if err != nil {
		return errors.Trace(err)
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress())
	if err != nil {
		return errors.Annotatef(err, "listening on %s", cfg.ListenAddress())
	}

	var collector *server.Collector
	if cfg.MetricsAddr != "" {
		collector = server.NewMetricsCollector()
		stop, err := serveMetrics(cfg.MetricsAddr, collector)
		if err != nil {
			_ = listener.Close()
			return errors.Trace(err)
		}
		defer stop()
	}

	w, err := server.NewWorker(server.WorkerConfig{
		Listener:  listener,
		Server:    srv,
		Collector: collector,
		Clock:     clock.WallClock,
	})
	if err != nil {
		_ = listener.Close()
		return errors.Trace(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		logger.Infof("shutting down")
		w.Kill()
	}()
	return errors.Trace(w.Wait())
}

// newServer builds the Azure clients and every component behind the gRPC
// handlers.
func newServer(cfg *config.Config, clk clock.Clock) (*server.Server, error) {
	cred, err := azure.NewCredential(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	clients, err := azure.NewClients(azure.ClientsParams{
		SubscriptionID: cfg.SubscriptionID,
		Credential:     cred,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	dir, err := directory.New(directory.Config{Client: clients.Graph, Clock: clk})
	if err != nil {
		return nil, errors.Trace(err)
	}
	roles, err := rbac.NewManager(rbac.Config{
		SubscriptionID:  cfg.SubscriptionID,
		RoleDefinitions: clients.RoleDefinitions,
		RoleAssignments: clients.RoleAssignments,
		Clock:           clk,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	finder, err := resources.NewFinder(clients.Resources)
	if err != nil {
		return nil, errors.Trace(err)
	}
	deleter, err := resources.NewDeleter(resources.DeleterClients{
		Resources:         clients.Resources,
		VirtualMachines:   clients.VirtualMachines,
		Interfaces:        clients.Interfaces,
		PublicIPAddresses: clients.PublicIPAddresses,
		VirtualNetworks:   clients.VirtualNetworks,
		SecurityGroups:    clients.SecurityGroups,
		StorageAccounts:   clients.StorageAccounts,
		Vaults:            clients.Vaults,
		Identities:        clients.Identities,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	groups, err := resources.NewResourceGroups(clients.ResourceGroups, clients.Tags, cfg.GroupTagKey)
	if err != nil {
		return nil, errors.Trace(err)
	}
	cleaner, err := resources.NewCleaner(resources.CleanerConfig{
		Finder:         finder,
		Deleter:        deleter,
		ResourceGroups: groups,
		TagKey:         cfg.GroupTagKey,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	checker, err := limits.NewChecker(limits.Config{
		Users:    dir,
		MaxUsers: cfg.MaxUsers,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	reporter, err := cost.NewReporter(cost.Config{
		Client:         clients.CostQuery,
		SubscriptionID: cfg.SubscriptionID,
		TagKey:         cfg.GroupTagKey,
		Clock:          clk,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	identitySvc, err := identity.NewService(identity.Config{
		Directory:      dir,
		Roles:          roles,
		Cleaner:        cleaner,
		ResourceGroups: groups,
		Limits:         checker,
		Prober:         clients,
		Clock:          clk,
		UserDomain:     cfg.UserDomain,
		Location:       cfg.ResourceGroupLocation,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	return server.New(server.Config{
		Identity:  identitySvc,
		Costs:     reporter,
		Resources: cleaner,
	})
}

// serveMetrics serves collector on addr until the returned function is
// called.
func serveMetrics(addr string, collector *server.Collector) (func(), error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return nil, errors.Annotate(err, "registering metrics")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Annotatef(err, "listening on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	httpServer := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Errorf("serving metrics: %v", err)
		}
	}()
	logger.Infof("serving metrics on %s", listener.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}, nil
}
