// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package server

import (
	"context"
	"net"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/worker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	gc "gopkg.in/check.v1"

	pb "github.com/unicloud/uc-adapter-azure/api/cloudadapterpb"
)

type workerSuite struct {
	baseSuite

	listener  *bufconn.Listener
	collector *Collector
}

var _ = gc.Suite(&workerSuite{})

func (s *workerSuite) SetUpTest(c *gc.C) {
	s.listener = bufconn.Listen(1 << 20)
	s.collector = NewMetricsCollector()
}

func (s *workerSuite) startWorker(c *gc.C, srv pb.CloudAdapterServer) *Worker {
	w, err := NewWorker(WorkerConfig{
		Listener:  s.listener,
		Server:    srv,
		Collector: s.collector,
		Clock:     clock.WallClock,
	})
	c.Assert(err, jc.ErrorIsNil)
	return w
}

func (s *workerSuite) dial(c *gc.C) *grpc.ClientConn {
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	c.Assert(err, jc.ErrorIsNil)
	return conn
}

func (s *workerSuite) TestValidate(c *gc.C) {
	_, err := NewWorker(WorkerConfig{})
	c.Assert(err, jc.ErrorIs, errors.NotValid)

	_, err = NewWorker(WorkerConfig{Listener: s.listener})
	c.Assert(err, gc.ErrorMatches, "nil Server not valid")
}

func (s *workerSuite) TestRoundTrip(c *gc.C) {
	ctrl, srv := s.setupMocks(c)
	defer ctrl.Finish()

	s.identity.EXPECT().Status(gomock.Any()).Return(true)
	s.costs.EXPECT().GroupMonthlyLastSixMonths(gomock.Any(), "AI 2024L").Return(map[string]float64{
		"2024-01": 0, "2024-02": 4.25,
	}, nil)

	w := s.startWorker(c, srv)
	defer func() { c.Check(worker.Stop(w), jc.ErrorIsNil) }()

	conn := s.dial(c)
	defer conn.Close()
	client := pb.NewCloudAdapterClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := client.GetStatus(ctx, &pb.StatusRequest{})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(st.IsHealthy, jc.IsTrue)

	monthly, err := client.GetGroupMonthlyCostsLast6Months(ctx, &pb.GroupMonthlyCostsRequest{GroupName: "AI 2024L"})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(monthly.MonthCosts, jc.DeepEquals, map[string]float64{"2024-01": 0, "2024-02": 4.25})

	services, err := client.GetAvailableServices(ctx, &pb.GetAvailableServicesRequest{})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(services.Services, jc.DeepEquals, []string{"network", "storage", "vm"})
}

func (s *workerSuite) TestErrorCodeOverTheWire(c *gc.C) {
	ctrl, srv := s.setupMocks(c)
	defer ctrl.Finish()

	s.identity.EXPECT().GroupExists(gomock.Any(), "").Return(false, errors.NotValidf("empty group name"))

	w := s.startWorker(c, srv)
	defer func() { c.Check(worker.Stop(w), jc.ErrorIsNil) }()

	conn := s.dial(c)
	defer conn.Close()

	_, err := pb.NewCloudAdapterClient(conn).GroupExists(context.Background(), &pb.GroupExistsRequest{})
	c.Assert(status.Code(err), gc.Equals, codes.InvalidArgument)
	c.Assert(status.Convert(err).Message(), gc.Equals, "empty group name not valid")

	c.Check(testutil.ToFloat64(s.collector.requests.WithLabelValues("GroupExists", "InvalidArgument")), gc.Equals, 1.0)
	c.Check(testutil.ToFloat64(s.collector.inflight), gc.Equals, 0.0)
}

func (s *workerSuite) TestHealth(c *gc.C) {
	ctrl, srv := s.setupMocks(c)
	defer ctrl.Finish()

	w := s.startWorker(c, srv)
	defer func() { c.Check(worker.Stop(w), jc.ErrorIsNil) }()

	conn := s.dial(c)
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: pb.ServiceName,
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(resp.Status, gc.Equals, healthpb.HealthCheckResponse_SERVING)
}

func (s *workerSuite) TestKillStopsServing(c *gc.C) {
	ctrl, srv := s.setupMocks(c)
	defer ctrl.Finish()

	w := s.startWorker(c, srv)
	w.Kill()
	c.Assert(w.Wait(), jc.ErrorIsNil)

	_, err := s.listener.Dial()
	c.Assert(err, gc.NotNil)
}

func (s *workerSuite) TestCollectorRegisters(c *gc.C) {
	registry := prometheus.NewPedanticRegistry()
	c.Assert(registry.Register(s.collector), jc.ErrorIsNil)

	s.collector.requests.WithLabelValues("GetStatus", "OK").Inc()
	count, err := testutil.GatherAndCount(registry, "uc_adapter_requests_total")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 1)
}
