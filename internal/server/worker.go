// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package server

import (
	"net"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/worker/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gopkg.in/tomb.v2"

	pb "github.com/unicloud/uc-adapter-azure/api/cloudadapterpb"
)

// WorkerConfig holds the configuration of a Worker.
type WorkerConfig struct {
	// Listener accepts the gRPC connections. The worker closes it when it
	// stops.
	Listener net.Listener

	// Server handles the CloudAdapter requests.
	Server pb.CloudAdapterServer

	// Collector, when set, records request metrics.
	Collector *Collector

	Clock clock.Clock
}

// Validate ensures that the config values are valid.
func (c WorkerConfig) Validate() error {
	if c.Listener == nil {
		return errors.NotValidf("nil Listener")
	}
	if c.Server == nil {
		return errors.NotValidf("nil Server")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Worker serves the CloudAdapter service until it is killed. In-flight
// requests are allowed to finish on shutdown.
type Worker struct {
	tomb   tomb.Tomb
	config WorkerConfig

	grpcServer *grpc.Server
	health     *health.Server
}

var _ worker.Worker = (*Worker)(nil)

// NewWorker starts serving on config.Listener.
func NewWorker(config WorkerConfig) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryInterceptor(config.Collector, config.Clock)),
	)
	pb.RegisterCloudAdapterServer(grpcServer, config.Server)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	w := &Worker{
		config:     config,
		grpcServer: grpcServer,
		health:     healthServer,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Worker) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Worker) Wait() error {
	return w.tomb.Wait()
}

// Addr returns the address the worker is serving on.
func (w *Worker) Addr() net.Addr {
	return w.config.Listener.Addr()
}

func (w *Worker) loop() error {
	logger.Infof("serving %s on %s", pb.ServiceName, w.config.Listener.Addr())

	w.tomb.Go(func() error {
		err := w.grpcServer.Serve(w.config.Listener)
		if err != nil && err != grpc.ErrServerStopped {
			return errors.Annotate(err, "serving gRPC")
		}
		return nil
	})

	<-w.tomb.Dying()
	logger.Infof("stopping %s", pb.ServiceName)
	w.health.Shutdown()
	w.grpcServer.GracefulStop()
	return tomb.ErrDying
}
