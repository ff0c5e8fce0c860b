package client

import (
	"testing"
	"time"

	"github.com/ValentinKolb/dCount/lib/clientcfg"
)

// TestDeriveClientConfig tests that cluster level settings are mapped onto
// the transport level client config
func TestDeriveClientConfig(t *testing.T) {
	cfg := &clientcfg.ClientConfig{
		ClusterName: "prod",
		Credentials: &clientcfg.Credentials{Token: "t0ken"},
		Network: &clientcfg.NetworkConfig{
			ConnectionTimeout:      7 * time.Second,
			ConnectionAttemptLimit: 4,
			SocketOptions: clientcfg.SocketOptions{
				TCPNoDelay:      true,
				KeepAliveSec:    30,
				LingerSec:       1,
				WriteBufferSize: 1024,
				ReadBufferSize:  2048,
			},
			Discovery: clientcfg.DiscoveryConfig{
				Endpoints:              []string{"10.0.0.1:5000", "10.0.0.2:5000"},
				Transport:              "tcp",
				ConnectionsPerEndpoint: 2,
			},
		},
	}

	derived := DeriveClientConfig(cfg)

	if derived.Token != "t0ken" {
		t.Errorf("token = %q, want t0ken", derived.Token)
	}
	if len(derived.Endpoints) != 2 || derived.Endpoints[0] != "10.0.0.1:5000" {
		t.Errorf("unexpected endpoints: %v", derived.Endpoints)
	}
	if derived.TimeoutSecond != 7 {
		t.Errorf("timeout = %d, want 7", derived.TimeoutSecond)
	}
	if derived.RetryCount != 4 {
		t.Errorf("retry count = %d, want 4", derived.RetryCount)
	}
	if derived.ConnectionsPerEndpoint != 2 {
		t.Errorf("connections per endpoint = %d, want 2", derived.ConnectionsPerEndpoint)
	}
	if !derived.TCPNoDelay || derived.TCPKeepAliveSec != 30 || derived.TCPLingerSec != 1 {
		t.Errorf("socket options not mapped: %+v", derived)
	}
	if derived.WriteBufferSize != 1024 || derived.ReadBufferSize != 2048 {
		t.Errorf("buffer sizes not mapped: %+v", derived)
	}
}

// TestDeriveClientConfigNilSections tests that optional sections may be absent
func TestDeriveClientConfigNilSections(t *testing.T) {
	derived := DeriveClientConfig(&clientcfg.ClientConfig{ClusterName: "bare"})

	if derived.Token != "" || len(derived.Endpoints) != 0 {
		t.Errorf("expected zero config, got %+v", derived)
	}
}

// TestTransportFor tests transport name resolution
func TestTransportFor(t *testing.T) {
	for _, name := range []string{"tcp", "unix", "http", ""} {
		if _, err := TransportFor(name); err != nil {
			t.Errorf("TransportFor(%q) failed: %v", name, err)
		}
	}
	if _, err := TransportFor("carrier-pigeon"); err == nil {
		t.Error("expected error for unknown transport")
	}
}

// TestSerializerFor tests serializer name resolution
func TestSerializerFor(t *testing.T) {
	for _, format := range []string{"json", "gob", "binary", ""} {
		if _, err := SerializerFor(format); err != nil {
			t.Errorf("SerializerFor(%q) failed: %v", format, err)
		}
	}
	if _, err := SerializerFor("xml"); err == nil {
		t.Error("expected error for unknown serializer")
	}
}
