package serve

import (
	"fmt"
	"strconv"
	"strings"

	cmdUtil "github.com/ValentinKolb/dCount/cmd/util"
	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/ValentinKolb/dCount/rpc/serializer"
	"github.com/ValentinKolb/dCount/rpc/server"
	"github.com/ValentinKolb/dCount/rpc/transport"
	"github.com/ValentinKolb/dCount/rpc/transport/http"
	"github.com/ValentinKolb/dCount/rpc/transport/tcp"
	"github.com/ValentinKolb/dCount/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dCount server",
		Long:    `Start the dCount server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DCOUNT_<flag> (e.g. DCOUNT_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "groups"
	ServeCmd.PersistentFlags().String(key, "100", cmdUtil.WrapString("Comma-separated list of counter group IDs to serve. Each group is an independently replicated set of counters (e.g. '100,200')"))

	key = "rtt-millisecond"
	ServeCmd.PersistentFlags().Int(key, 100, cmdUtil.WrapString("RTTMillisecond defines the average Round Trip Time (RTT) in milliseconds between two NodeHost instances. \nOther raft configuration parameters (ElectionRTT=value/10, HeartbeatRTT=value/100) are derived from this value"))

	key = "snapshot-entries"
	ServeCmd.PersistentFlags().Int(key, 10, cmdUtil.WrapString("SnapshotEntries defines how often the state machine should be snapshotted automatically. It is defined in terms of the number of applied Raft log entries. SnapshotEntries can be set to 0 to disable such automatic snapshotting (not recommended)"))

	key = "compaction-overhead"
	ServeCmd.PersistentFlags().Int(key, 5, cmdUtil.WrapString("CompactionOverhead defines the number of snapshots that should be retained in the system. When a new snapshot is generated, the system will attempt to remove older snapshots that go beyond the specified number of retained snapshots. Recommended value is about 1/2 of SnapshotEntries"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("DataDir is the directory used for storing the snapshots"))

	key = "replica-id"
	ServeCmd.PersistentFlags().Uint64(key, 0, cmdUtil.WrapString("ReplicaID is the unique numeric identifier for this NodeHost instance (e.g. 1). Required for multi-node clusters"))

	key = "cluster-members"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("ClusterMembers is a comma-separated list of NodeHost addresses in the format '1=localhost:63001,2=localhost:63002,...'"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for consensus proposals"))

	key = "max-inflight"
	ServeCmd.PersistentFlags().Int(key, 1024, cmdUtil.WrapString("Maximum number of proposals awaiting consensus completion at the same time"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. http:localhost:8080, /tmp/dcount.sock, ...)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address for the Prometheus metrics listener (e.g. 0.0.0.0:9090). Empty disables metrics"))

	key = "auth-secret"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("HMAC secret used to verify bearer tokens. Empty disables authorization"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse counter groups
	serveCmdConfig.GroupIDs = nil
	for _, group := range strings.Split(viper.GetString("groups"), ",") {
		groupID, err := strconv.ParseUint(strings.TrimSpace(group), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid group ID %s: %v", group, err)
		}
		serveCmdConfig.GroupIDs = append(serveCmdConfig.GroupIDs, groupID)
	}
	if len(serveCmdConfig.GroupIDs) == 0 {
		return fmt.Errorf("at least one counter group is required")
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.RTTMillisecond = viper.GetUint64("rtt-millisecond")
	serveCmdConfig.SnapshotEntries = viper.GetUint64("snapshot-entries")
	serveCmdConfig.CompactionOverhead = viper.GetUint64("compaction-overhead")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MaxInFlight = viper.GetInt("max-inflight")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	// authorization is enabled by providing a secret
	if secret := viper.GetString("auth-secret"); secret != "" {
		serveCmdConfig.Auth = common.AuthConfig{Enabled: true, Secret: secret}
	}

	// parse replica id
	serveCmdConfig.ReplicaID = viper.GetUint64("replica-id")

	// parse cluster members
	if clusterMembers := viper.GetString("cluster-members"); clusterMembers != "" {
		serveCmdConfig.ClusterMembers = make(map[uint64]string)
		for _, member := range strings.Split(clusterMembers, ",") {
			parts := strings.Split(member, "=")
			if len(parts) != 2 {
				return fmt.Errorf("invalid cluster member format: %s (expected ID=address)", member)
			}
			id, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cluster member ID %s: %v", parts[0], err)
			}
			serveCmdConfig.ClusterMembers[id] = parts[1]
		}
	} else {
		// single node cluster
		if serveCmdConfig.ReplicaID == 0 {
			serveCmdConfig.ReplicaID = 1
		}
		serveCmdConfig.ClusterMembers = map[uint64]string{
			serveCmdConfig.ReplicaID: "localhost:63001",
		}
	}

	// test if the replica id is in the cluster members
	if _, ok := serveCmdConfig.ClusterMembers[serveCmdConfig.ReplicaID]; !ok {
		return fmt.Errorf("no address found for replica ID %d in cluster members", serveCmdConfig.ReplicaID)
	}

	return nil
}

// run starts the dCount server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPDefaultServerTransport()
	case "unix":
		t = unix.NewUnixDefaultServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dcount")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
