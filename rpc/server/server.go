package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/dCount/lib/counter/dcounter"
	"github.com/ValentinKolb/dCount/lib/invocation"
	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/ValentinKolb/dCount/rpc/serializer"
	"github.com/ValentinKolb/dCount/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents one counter group in the RPC
// server. It contains the async counter handle bound to the group and the
// adapter that executes requests against it
type serverShard struct {
	Counter *dcounter.AsyncCounter
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create shards map
	shardMap := xsync.NewMapOf[uint64, serverShard]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     shardMap,
	}
}

type rpcServer struct {
	config      common.ServerConfig
	transport   transport.IRPCServerTransport
	serializer  serializer.IRPCSerializer
	shards      *xsync.MapOf[uint64, serverShard]
	invocations invocation.IInvocationService
	authorizer  IAuthorizer
	nodeHost    *dragonboat.NodeHost
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte, reply func(resp []byte)) {
		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			resp, err := s.serializer.Serialize(*common.NewErrorResponse("shard not found"))
			if err != nil {
				Logger.Errorf("failed to serialize error response: %v", err)
			}
			reply(resp)
			return
		}

		// Run the request task: decode, authorize, dispatch. The task sends
		// the response via reply exactly once, possibly after run returned
		newRequestTask(shardId, req, shard, s.serializer, s.authorizer, reply).run()
	})
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	// Create the Dragonboat NodeHost
	nodeHost, err := dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
	if err != nil {
		return fmt.Errorf("failed to create node host: %w", err)
	}
	s.nodeHost = nodeHost

	// Configure the timeout for consensus proposals
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	// Create the invocation service shared by all counter groups
	s.invocations = invocation.NewService(nodeHost, timeout, s.config.MaxInFlight)

	// Configure authorization
	if s.config.Auth.Enabled {
		s.authorizer = NewJWTAuthorizer(s.config.Auth.Secret)
		Logger.Infof("request authorization enabled")
	} else {
		s.authorizer = NewNoopAuthorizer()
	}

	// CREATE COUNTER GROUPS

	/*
		Note: A single RPC server hosts any number of counter groups. Each
		group is one replicated state machine with its own raft log, counters
		in different groups are independent. The following loop starts all
		groups and stores a shard handle for each.
	*/

	for _, groupID := range s.config.GroupIDs {
		// Start Raft for the group
		if err := nodeHost.StartReplica(s.config.ClusterMembers, false, dcounter.CreateStateMachineFactory(), s.config.ToDragonboatConfig(groupID)); err != nil {
			Logger.Errorf("failed to start group %v: %v", groupID, err)
			continue
		}

		s.shards.Store(groupID, serverShard{
			Counter: dcounter.NewAsyncCounter(s.invocations, groupID),
			Adapter: NewCounterServerAdapter(),
		})
		Logger.Infof("created counter group %d", groupID)

		// Per-group gauge, read from the local replica
		gid := groupID
		metrics.GetOrCreateGauge(fmt.Sprintf(`dcount_group_counters{group="%d"}`, gid), func() float64 {
			stats, err := dcounter.ReadGroupStats(nodeHost, gid)
			if err != nil {
				return 0
			}
			return float64(stats.Counters)
		})
	}

	// Start the metrics endpoint if configured
	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	Logger.Infof("dCount setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the counter groups and
// start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// serveMetrics exposes the request counters and group gauges in Prometheus
// text format. The metrics listener is not load bearing, the main server
// keeps running if it stops.
func (s *rpcServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("Starting metrics server on %s", s.config.MetricsEndpoint)
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		Logger.Errorf("metrics server stopped: %v", err)
	}
}
