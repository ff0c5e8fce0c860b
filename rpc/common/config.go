package common

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/config"
)

// --------------------------------------------------------------------------
// helper functions for to interface with Dragonboat (for the server util)
// --------------------------------------------------------------------------

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// ToDragonboatConfig converts the ServerConfig to Dragonboat Config
func (c *ServerConfig) ToDragonboatConfig(shardId uint64) config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            shardId,
		ElectionRTT:        electionRTTFactor,  // = c.RTTMillisecond * 10
		HeartbeatRTT:       heartbeatRTTFactor, // = c.RTTMillisecond * 2
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
		MaxInMemLogSize:    0,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *ServerConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.ClusterMembers[c.ReplicaID],
	}
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// AuthConfig holds the settings for request authorization. If Enabled is
// false every request is dispatched without inspecting the token.
type AuthConfig struct {
	Enabled bool
	// Secret is the HMAC secret used to verify bearer tokens
	Secret string
}

// ServerConfig holds all configuration parameters for the RAFT cluster.
type ServerConfig struct {
	// Counter groups hosted by this node, one replicated state machine each
	GroupIDs []uint64

	// Dragenboat parameters
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	DataDir            string
	ReplicaID          uint64
	ClusterMembers     map[uint64]string

	// request handling parameters
	TimeoutSecond int64
	MaxInFlight   int

	// api settings
	Endpoint        string
	MetricsEndpoint string // optional, empty disables the metrics listener

	// Authorization
	Auth AuthConfig

	// Socket tuning (used by the tcp transport)
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
	WriteBufferSize int
	ReadBufferSize  int

	// Logging configuration
	LogLevel string
}

// SingleNode checks if the configuration describes a single node cluster
func (c *ServerConfig) SingleNode() bool {
	return len(c.ClusterMembers) <= 1
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max In-Flight", strconv.Itoa(c.MaxInFlight))
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	// Authorization
	addSection("Authorization")
	addField("Enabled", fmt.Sprintf("%t", c.Auth.Enabled))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Counter groups
	addSection("Counter Groups")
	for _, groupID := range c.GroupIDs {
		addField(strconv.FormatUint(groupID, 10), "atomic counter group")
	}

	// Node Identity
	addSection("Node Identity")
	addField("RAFT Address", c.ClusterMembers[c.ReplicaID])
	addField("Node ID", strconv.FormatUint(c.ReplicaID, 10))

	// RAFT parameters
	addSection("RAFT Parameters")
	addField("Round Trip Time (ms)", fmt.Sprintf("%d ms", c.RTTMillisecond))
	addField("Election RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*electionRTTFactor))
	addField("Heartbeat RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*heartbeatRTTFactor))
	addField("Check Quorum", fmt.Sprintf("%t", true))
	addField("Snapshot Entries", fmt.Sprintf("%d", c.SnapshotEntries))
	addField("Compaction Overhead", fmt.Sprintf("%d", c.CompactionOverhead))

	// Storage
	addSection("Storage")
	addField("Data Directory", c.DataDir)

	// Cluster configuration
	addSection("Cluster")
	sb.WriteString("  Initial Cluster Members:\n")

	// Sort keys for consistent output
	var keys []uint64
	for k := range c.ClusterMembers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("    Node %d: %s\n", k, c.ClusterMembers[k]))
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int
	// Token is sent with every request when set
	Token string

	// Socket tuning (used by the tcp transport)
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
	WriteBufferSize int
	ReadBufferSize  int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))
	addField("Token Set", fmt.Sprintf("%t", c.Token != ""))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
