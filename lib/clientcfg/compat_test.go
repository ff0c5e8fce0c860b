package clientcfg

import (
	"strings"
	"testing"
	"time"
)

// testConfig returns a fully populated config for cluster name
func testConfig(clusterName string) *ClientConfig {
	return &ClientConfig{
		ClusterName:      clusterName,
		InstanceName:     "client-1",
		ExecutorPoolSize: 5,
		Properties:       map[string]string{"invocation.timeout": "5s"},
		LoadBalancer:     "round-robin",
		Listeners:        []ListenerConfig{{Name: "lifecycle", Type: "membership"}},
		NearCaches: map[string]NearCacheConfig{
			"sessions-*": {MaxEntries: 1000, TimeToLive: time.Minute},
		},
		Serialization: &SerializationConfig{Format: "json", BigEndian: true},
		Labels:        []string{"backend"},
		UserContext:   map[string]string{"team": "platform"},
		Credentials:   &Credentials{Username: clusterName + "-user", Password: "secret"},
		Security:      &SecurityConfig{TLSEnabled: true, CAFile: clusterName + "-ca.pem"},
		Network: &NetworkConfig{
			SmartRouting:            true,
			RedoOperation:           false,
			ConnectionTimeout:       5 * time.Second,
			ConnectionAttemptLimit:  3,
			ConnectionAttemptPeriod: 3 * time.Second,
			SocketOptions:           SocketOptions{TCPNoDelay: true, WriteBufferSize: 1024},
			OutboundPorts:           []int{34500, 34501},
			Discovery: DiscoveryConfig{
				Endpoints: []string{clusterName + ".example.com:8080"},
				Transport: "tcp",
			},
		},
	}
}

// TestCheckCompatibleIdentity tests that a config is always compatible with itself
func TestCheckCompatibleIdentity(t *testing.T) {
	cfg := testConfig("A")
	if err := CheckCompatible(cfg, cfg); err != nil {
		t.Errorf("config must be compatible with itself, got: %v", err)
	}
}

// TestCheckCompatibleExemptFields tests that configs differing only in
// cluster identity, security, credentials and discovery are compatible
func TestCheckCompatibleExemptFields(t *testing.T) {
	primary := testConfig("A")
	alternate := testConfig("B") // differs in name, credentials, security, discovery

	if err := CheckCompatible(primary, alternate); err != nil {
		t.Errorf("exempt-only differences must be compatible, got: %v", err)
	}
}

// TestCheckCompatibleMismatches tests that each must-match field mismatch is
// detected and names the offending field
func TestCheckCompatibleMismatches(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *ClientConfig)
		wantField string
	}{
		{
			name:      "executor pool size",
			mutate:    func(c *ClientConfig) { c.ExecutorPoolSize = 3 },
			wantField: "executorPoolSize",
		},
		{
			name:      "properties",
			mutate:    func(c *ClientConfig) { c.Properties["extra"] = "x" },
			wantField: "properties",
		},
		{
			name:      "load balancer",
			mutate:    func(c *ClientConfig) { c.LoadBalancer = "random" },
			wantField: "loadBalancer",
		},
		{
			name:      "listeners",
			mutate:    func(c *ClientConfig) { c.Listeners = nil },
			wantField: "listeners",
		},
		{
			name:      "instance name",
			mutate:    func(c *ClientConfig) { c.InstanceName = "client-2" },
			wantField: "instanceName",
		},
		{
			name:      "near cache map",
			mutate:    func(c *ClientConfig) { delete(c.NearCaches, "sessions-*") },
			wantField: "nearCache",
		},
		{
			name:      "serialization",
			mutate:    func(c *ClientConfig) { c.Serialization = &SerializationConfig{Format: "gob"} },
			wantField: "serializationConfig",
		},
		{
			name:      "absent serialization on one side",
			mutate:    func(c *ClientConfig) { c.Serialization = nil },
			wantField: "serializationConfig",
		},
		{
			name:      "license key",
			mutate:    func(c *ClientConfig) { c.LicenseKey = "other" },
			wantField: "licenseKey",
		},
		{
			name:      "labels",
			mutate:    func(c *ClientConfig) { c.Labels = []string{"frontend"} },
			wantField: "labels",
		},
		{
			name:      "user context",
			mutate:    func(c *ClientConfig) { c.UserContext = nil },
			wantField: "userContext",
		},
		{
			name:      "smart routing",
			mutate:    func(c *ClientConfig) { c.Network.SmartRouting = false },
			wantField: "network:smartRouting",
		},
		{
			name:      "redo operation",
			mutate:    func(c *ClientConfig) { c.Network.RedoOperation = true },
			wantField: "network:redoOperation",
		},
		{
			name:      "connection timeout",
			mutate:    func(c *ClientConfig) { c.Network.ConnectionTimeout = time.Second },
			wantField: "network:connectionTimeout",
		},
		{
			name:      "connection attempt limit",
			mutate:    func(c *ClientConfig) { c.Network.ConnectionAttemptLimit = 9 },
			wantField: "network:connectionAttemptLimit",
		},
		{
			name:      "socket options",
			mutate:    func(c *ClientConfig) { c.Network.SocketOptions.TCPNoDelay = false },
			wantField: "network:socketOptions",
		},
		{
			name:      "outbound ports",
			mutate:    func(c *ClientConfig) { c.Network.OutboundPorts = []int{40000} },
			wantField: "network:outboundPorts",
		},
		{
			name:      "icmp",
			mutate:    func(c *ClientConfig) { c.Network.ICMP = &ICMPPingConfig{Enabled: true} },
			wantField: "network:clientIcmp",
		},
		{
			name:      "network absent on one side",
			mutate:    func(c *ClientConfig) { c.Network = nil },
			wantField: "network",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := testConfig("A")
			alternate := testConfig("B")
			tt.mutate(alternate)

			err := CheckCompatible(primary, alternate)
			if err == nil {
				t.Fatal("expected incompatibility error, got nil")
			}
			if !strings.Contains(err.Error(), "for "+tt.wantField) {
				t.Errorf("error does not name field %q: %v", tt.wantField, err)
			}
			// Diagnostics must name both cluster identities
			if !strings.Contains(err.Error(), `"A"`) || !strings.Contains(err.Error(), `"B"`) {
				t.Errorf("error does not name both clusters: %v", err)
			}
		})
	}
}

// TestCheckCompatibleBothNetworksAbsent tests that two configs without a
// network section are compatible
func TestCheckCompatibleBothNetworksAbsent(t *testing.T) {
	primary := testConfig("A")
	alternate := testConfig("B")
	primary.Network = nil
	alternate.Network = nil

	if err := CheckCompatible(primary, alternate); err != nil {
		t.Errorf("two absent network sections must be compatible, got: %v", err)
	}
}
