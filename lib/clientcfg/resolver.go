package clientcfg

import (
	"math"
)

// --------------------------------------------------------------------------
// Failover configuration struct
// --------------------------------------------------------------------------

// DefaultTryCount is the number of full failover cycles attempted before the
// client gives up, when the failover config does not specify one.
const DefaultTryCount = math.MaxInt32

// FailoverConfig is an ordered, non-empty sequence of cluster configurations.
// Index 0 is the primary (home) cluster, every later entry a fallback target
// that has been validated as compatible with the primary.
type FailoverConfig struct {
	// TryCount is how many full failover cycles to attempt before giving up.
	TryCount int `mapstructure:"try-count"`

	// Configs is the ordered cluster list. Must be non-empty.
	Configs []*ClientConfig `mapstructure:"clients"`
}

// Primary returns the home cluster configuration.
func (f *FailoverConfig) Primary() *ClientConfig {
	return f.Configs[0]
}

// --------------------------------------------------------------------------
// Resolver
// --------------------------------------------------------------------------

// ResolveFailover validates an explicit failover config. If cfg is nil, the
// loader discovery chain is tried instead. On success the config is returned
// as-is; on any validation failure a *ConfigError is returned and the client
// must not be constructed.
func ResolveFailover(cfg *FailoverConfig) (*FailoverConfig, error) {
	if cfg == nil {
		loaded, err := loadFailoverConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := checkValidAlternatives(cfg.Configs); err != nil {
		return nil, err
	}

	if cfg.TryCount <= 0 {
		cfg.TryCount = DefaultTryCount
	}
	return cfg, nil
}

// ResolveSingle wraps a single cluster configuration into a one-element
// failover config. If cfg is nil, the default discovery chain is used. The
// try count is fixed at 1: a single-cluster client never fails over, it only
// retries reconnects to the same cluster.
func ResolveSingle(cfg *ClientConfig) (*FailoverConfig, error) {
	if cfg == nil {
		loaded, err := loadClientConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	return &FailoverConfig{
		TryCount: 1,
		Configs:  []*ClientConfig{cfg},
	}, nil
}

// Resolve produces the failover config for a client constructed without any
// explicit configuration: a single discovered (or default) cluster config.
func Resolve() (*FailoverConfig, error) {
	return ResolveSingle(nil)
}

// checkValidAlternatives runs the compatibility checker over every
// (primary, alternate) pair in order and stops at the first mismatch.
func checkValidAlternatives(configs []*ClientConfig) error {
	if len(configs) == 0 {
		return NewConfigError("failover config should have at least one client config")
	}

	primary := configs[0]
	for _, alternate := range configs[1:] {
		if err := CheckCompatible(primary, alternate); err != nil {
			return err
		}
	}
	return nil
}
