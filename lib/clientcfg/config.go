package clientcfg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for connecting to one
// cluster. It is constructed once (explicitly or by the loader) and treated
// as immutable after resolution succeeds; any number of later connection
// attempts may read it concurrently without locking.
type ClientConfig struct {
	// Cluster identity. Expected to differ between failover targets.
	ClusterName string `mapstructure:"cluster-name"`

	// Credentials for the cluster. Expected to differ between failover targets.
	Credentials *Credentials `mapstructure:"credentials"`

	// Security settings. Expected to differ between failover targets.
	Security *SecurityConfig `mapstructure:"security"`

	// Instance identity and licensing
	InstanceName string `mapstructure:"instance-name"`
	LicenseKey   string `mapstructure:"license-key"`

	// Client behavior
	ExecutorPoolSize     int               `mapstructure:"executor-pool-size"`
	Properties           map[string]string `mapstructure:"properties"`
	LoadBalancer         string            `mapstructure:"load-balancer"`
	Listeners            []ListenerConfig  `mapstructure:"listeners"`
	ConfigPatternMatcher string            `mapstructure:"config-pattern-matcher"`

	// Per-primitive tuning, keyed by name pattern
	NearCaches        map[string]NearCacheConfig        `mapstructure:"near-caches"`
	ReliableTopics    map[string]ReliableTopicConfig    `mapstructure:"reliable-topics"`
	QueryCaches       map[string]QueryCacheConfig       `mapstructure:"query-caches"`
	FlakeIDGenerators map[string]FlakeIDGeneratorConfig `mapstructure:"flake-id-generators"`

	// Wire format settings. Both clusters of a failover pair must agree,
	// otherwise a failover would silently change how payloads are encoded.
	Serialization *SerializationConfig `mapstructure:"serialization"`

	// Connection behavior
	ConnectionStrategy *ConnectionStrategyConfig `mapstructure:"connection-strategy"`

	// Free-form client metadata
	Labels      []string          `mapstructure:"labels"`
	UserContext map[string]string `mapstructure:"user-context"`

	// Network settings. A nil network section is a first-class state: two
	// configs are only comparable if both have one or both have none.
	Network *NetworkConfig `mapstructure:"network"`
}

// Credentials identify the client against one cluster.
type Credentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
}

// SecurityConfig holds cluster-specific security settings.
type SecurityConfig struct {
	TLSEnabled bool   `mapstructure:"tls-enabled"`
	CAFile     string `mapstructure:"ca-file"`
	CertFile   string `mapstructure:"cert-file"`
	KeyFile    string `mapstructure:"key-file"`
}

// ListenerConfig names a lifecycle/membership listener registered on startup.
type ListenerConfig struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// NearCacheConfig tunes client-side caching for matching primitive names.
type NearCacheConfig struct {
	MaxEntries        int           `mapstructure:"max-entries"`
	TimeToLive        time.Duration `mapstructure:"time-to-live"`
	InvalidateOnWrite bool          `mapstructure:"invalidate-on-write"`
}

// ReliableTopicConfig tunes reliable topic proxies for matching names.
type ReliableTopicConfig struct {
	ReadBatchSize int    `mapstructure:"read-batch-size"`
	OverloadPolicy string `mapstructure:"overload-policy"`
}

// QueryCacheConfig tunes continuous query caches for matching names.
type QueryCacheConfig struct {
	BatchSize  int  `mapstructure:"batch-size"`
	BufferSize int  `mapstructure:"buffer-size"`
	Coalesce   bool `mapstructure:"coalesce"`
}

// FlakeIDGeneratorConfig tunes id generator proxies for matching names.
type FlakeIDGeneratorConfig struct {
	PrefetchCount    int           `mapstructure:"prefetch-count"`
	PrefetchValidity time.Duration `mapstructure:"prefetch-validity"`
}

// SerializationConfig selects the wire format used for all payloads.
// Format matches the rpc serializer names (json, gob, binary).
type SerializationConfig struct {
	Format    string `mapstructure:"format"`
	BigEndian bool   `mapstructure:"big-endian"`
}

// ConnectionStrategyConfig controls how aggressively the client connects.
type ConnectionStrategyConfig struct {
	AsyncStart    bool   `mapstructure:"async-start"`
	ReconnectMode string `mapstructure:"reconnect-mode"`
}

// --------------------------------------------------------------------------
// Network configuration struct
// --------------------------------------------------------------------------

// NetworkConfig holds the network settings for one cluster. The Discovery
// section is the part expected to differ between failover targets; everything
// else must match across a failover pair.
type NetworkConfig struct {
	SmartRouting            bool          `mapstructure:"smart-routing"`
	RedoOperation           bool          `mapstructure:"redo-operation"`
	ConnectionTimeout       time.Duration `mapstructure:"connection-timeout"`
	ConnectionAttemptLimit  int           `mapstructure:"connection-attempt-limit"`
	ConnectionAttemptPeriod time.Duration `mapstructure:"connection-attempt-period"`
	SocketOptions           SocketOptions `mapstructure:"socket-options"`
	OutboundPortDefinitions []string      `mapstructure:"outbound-port-definitions"`
	OutboundPorts           []int         `mapstructure:"outbound-ports"`
	ICMP                    *ICMPPingConfig `mapstructure:"icmp"`

	// Discovery describes where the cluster lives. Expected to differ
	// between failover targets.
	Discovery DiscoveryConfig `mapstructure:"discovery"`
}

// SocketOptions mirror the tunables of the rpc transports.
type SocketOptions struct {
	TCPNoDelay      bool `mapstructure:"tcp-no-delay"`
	KeepAliveSec    int  `mapstructure:"keep-alive-sec"`
	LingerSec       int  `mapstructure:"linger-sec"`
	WriteBufferSize int  `mapstructure:"write-buffer-size"`
	ReadBufferSize  int  `mapstructure:"read-buffer-size"`
}

// ICMPPingConfig controls liveness probing of cluster members.
type ICMPPingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max-attempts"`
}

// DiscoveryConfig describes how to reach one cluster.
type DiscoveryConfig struct {
	Endpoints              []string `mapstructure:"endpoints"`
	Transport              string   `mapstructure:"transport"`
	ConnectionsPerEndpoint int      `mapstructure:"connections-per-endpoint"`
}

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

// DefaultClientConfig returns the built-in configuration used when no
// configuration file could be located.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		ClusterName:      "dev",
		ExecutorPoolSize: 5,
		Serialization:    &SerializationConfig{Format: "json", BigEndian: true},
		Network: &NetworkConfig{
			SmartRouting:            true,
			ConnectionTimeout:       5 * time.Second,
			ConnectionAttemptLimit:  3,
			ConnectionAttemptPeriod: 3 * time.Second,
			SocketOptions: SocketOptions{
				TCPNoDelay:      true,
				WriteBufferSize: 512 * 1024,
				ReadBufferSize:  512 * 1024,
			},
			Discovery: DiscoveryConfig{
				Endpoints:              []string{"http://localhost:8080"},
				Transport:              "http",
				ConnectionsPerEndpoint: 1,
			},
		},
	}
}

// String returns a formatted string representation of the configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-24s: %s\n", name, value))
	}

	addSection("Cluster")
	addField("Cluster Name", c.ClusterName)
	addField("Instance Name", c.InstanceName)
	addField("Executor Pool Size", strconv.Itoa(c.ExecutorPoolSize))
	if c.Serialization != nil {
		addField("Serialization Format", c.Serialization.Format)
	}

	if c.Network != nil {
		addSection("Network")
		addField("Smart Routing", strconv.FormatBool(c.Network.SmartRouting))
		addField("Redo Operation", strconv.FormatBool(c.Network.RedoOperation))
		addField("Connection Timeout", c.Network.ConnectionTimeout.String())
		addField("Attempt Limit", strconv.Itoa(c.Network.ConnectionAttemptLimit))
		addField("Attempt Period", c.Network.ConnectionAttemptPeriod.String())

		addSection("Discovery")
		addField("Transport", c.Network.Discovery.Transport)
		for i, endpoint := range c.Network.Discovery.Endpoints {
			addField(strconv.Itoa(i), endpoint)
		}
	}

	return sb.String()
}
