package clientcfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir switches the working directory for the duration of a test
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// TestResolveFailoverEmpty tests that an empty config list fails before any
// alternate is examined
func TestResolveFailoverEmpty(t *testing.T) {
	_, err := ResolveFailover(&FailoverConfig{})
	if err == nil {
		t.Fatal("expected error for empty failover config, got nil")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("expected *ConfigError, got %T", err)
	}
}

// TestResolveFailoverCompatiblePair tests the two-cluster scenario: same
// behavior, different identity
func TestResolveFailoverCompatiblePair(t *testing.T) {
	primary := testConfig("A")
	alternate := testConfig("B")

	resolved, err := ResolveFailover(&FailoverConfig{
		Configs: []*ClientConfig{primary, alternate},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if len(resolved.Configs) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(resolved.Configs))
	}
	if resolved.Configs[0].ClusterName != "A" || resolved.Configs[1].ClusterName != "B" {
		t.Errorf("config order not preserved: %s, %s",
			resolved.Configs[0].ClusterName, resolved.Configs[1].ClusterName)
	}
	if resolved.TryCount != DefaultTryCount {
		t.Errorf("expected default try count %d, got %d", DefaultTryCount, resolved.TryCount)
	}
	if resolved.Primary().ClusterName != "A" {
		t.Errorf("Primary() = %s, want A", resolved.Primary().ClusterName)
	}
}

// TestResolveFailoverIncompatible tests that an incompatible alternate
// aborts resolution with the offending field name
func TestResolveFailoverIncompatible(t *testing.T) {
	primary := testConfig("A")
	alternate := testConfig("B")
	alternate.Network.SmartRouting = false

	_, err := ResolveFailover(&FailoverConfig{
		Configs: []*ClientConfig{primary, alternate},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "network:smartRouting") {
		t.Errorf("error does not name network:smartRouting: %v", err)
	}
}

// TestResolveFailoverKeepsExplicitTryCount tests that a configured try count
// survives resolution
func TestResolveFailoverKeepsExplicitTryCount(t *testing.T) {
	resolved, err := ResolveFailover(&FailoverConfig{
		TryCount: 3,
		Configs:  []*ClientConfig{testConfig("A")},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.TryCount != 3 {
		t.Errorf("try count = %d, want 3", resolved.TryCount)
	}
}

// TestResolveSingle tests that a single config is wrapped with try count 1
func TestResolveSingle(t *testing.T) {
	resolved, err := ResolveSingle(testConfig("A"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(resolved.Configs) != 1 {
		t.Fatalf("expected 1 config, got %d", len(resolved.Configs))
	}
	if resolved.TryCount != 1 {
		t.Errorf("a single-cluster client must have try count 1, got %d", resolved.TryCount)
	}
}

// TestResolveDefault tests that resolution without any config falls back to
// the built-in default
func TestResolveDefault(t *testing.T) {
	// Make sure no explicit location or working-dir file interferes
	t.Setenv(EnvClientConfig, "")
	chdir(t, t.TempDir())

	resolved, err := Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.TryCount != 1 {
		t.Errorf("try count = %d, want 1", resolved.TryCount)
	}
	if resolved.Primary().ClusterName != "dev" {
		t.Errorf("default cluster name = %q, want dev", resolved.Primary().ClusterName)
	}
}

// TestLoadClientConfigFromEnvPath tests the explicit env-provided location
func TestLoadClientConfigFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	content := `
cluster-name: prod
executor-pool-size: 7
serialization:
  format: gob
network:
  smart-routing: true
  connection-timeout: 5s
  discovery:
    endpoints:
      - prod.example.com:8080
    transport: tcp
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvClientConfig, path)

	resolved, err := ResolveSingle(nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	cfg := resolved.Primary()
	if cfg.ClusterName != "prod" {
		t.Errorf("cluster name = %q, want prod", cfg.ClusterName)
	}
	if cfg.ExecutorPoolSize != 7 {
		t.Errorf("executor pool size = %d, want 7", cfg.ExecutorPoolSize)
	}
	if cfg.Serialization == nil || cfg.Serialization.Format != "gob" {
		t.Errorf("serialization = %+v, want format gob", cfg.Serialization)
	}
	if cfg.Network == nil || len(cfg.Network.Discovery.Endpoints) != 1 {
		t.Fatalf("network discovery not parsed: %+v", cfg.Network)
	}
}

// TestLoadFailoverConfigMissing tests that a nil failover config without a
// discoverable file is a configuration error (there is no built-in failover
// default)
func TestLoadFailoverConfigMissing(t *testing.T) {
	t.Setenv(EnvFailoverConfig, "")
	chdir(t, t.TempDir())

	if _, err := ResolveFailover(nil); err == nil {
		t.Fatal("expected error for missing failover config, got nil")
	}
}

// TestLoadFailoverConfigFromFile tests end-to-end file based failover resolution
func TestLoadFailoverConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failover.yaml")
	content := `
try-count: 2
clients:
  - cluster-name: blue
    executor-pool-size: 5
    network:
      smart-routing: true
      discovery:
        endpoints: [blue.example.com:8080]
  - cluster-name: green
    executor-pool-size: 5
    network:
      smart-routing: true
      discovery:
        endpoints: [green.example.com:8080]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFailoverConfig, path)

	resolved, err := ResolveFailover(nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.TryCount != 2 {
		t.Errorf("try count = %d, want 2", resolved.TryCount)
	}
	if resolved.Configs[0].ClusterName != "blue" || resolved.Configs[1].ClusterName != "green" {
		t.Errorf("unexpected cluster order: %s, %s",
			resolved.Configs[0].ClusterName, resolved.Configs[1].ClusterName)
	}
}
