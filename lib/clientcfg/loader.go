package clientcfg

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables naming an explicit configuration file location.
// An explicitly named file that fails to load is an error; the loader never
// falls through to the next source in that case.
const (
	EnvClientConfig   = "DCOUNT_CLIENT_CONFIG"
	EnvFailoverConfig = "DCOUNT_FAILOVER_CONFIG"
)

// File base names searched in the working directory.
const (
	clientConfigName   = "dcount-client"
	failoverConfigName = "dcount-failover"
)

var configExtensions = []string{"yaml", "yml", "json", "toml"}

// loadClientConfig locates and parses a single cluster configuration.
// Search order: explicit env-provided location, then the working directory,
// then the built-in default. The first located source wins, sources are
// never merged.
func loadClientConfig() (*ClientConfig, error) {
	_ = godotenv.Load(".env")

	path, found := locate(EnvClientConfig, clientConfigName)
	if !found {
		return DefaultClientConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, NewConfigError("failed to read client config %s: %v", path, err)
	}

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, NewConfigError("failed to parse client config %s: %v", path, err)
	}
	return cfg, nil
}

// loadFailoverConfig locates and parses a failover configuration using the
// same search order as loadClientConfig. Unlike the single-config case there
// is no built-in default: a client asking for failover without providing a
// config is a configuration error.
func loadFailoverConfig() (*FailoverConfig, error) {
	_ = godotenv.Load(".env")

	path, found := locate(EnvFailoverConfig, failoverConfigName)
	if !found {
		return nil, NewConfigError("no failover config provided and none found " +
			"(set " + EnvFailoverConfig + " or place a " + failoverConfigName + " file in the working directory)")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, NewConfigError("failed to read failover config %s: %v", path, err)
	}

	cfg := &FailoverConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, NewConfigError("failed to parse failover config %s: %v", path, err)
	}
	return cfg, nil
}

// locate returns the path of the first existing configuration source:
// the env-provided location first, then baseName.<ext> in the working
// directory.
func locate(envVar, baseName string) (string, bool) {
	if path := os.Getenv(envVar); path != "" {
		return path, true
	}

	for _, ext := range configExtensions {
		path := fmt.Sprintf("%s.%s", baseName, ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
