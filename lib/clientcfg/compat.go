package clientcfg

import (
	"fmt"
	"reflect"
)

// --------------------------------------------------------------------------
// Configuration Error Type
// --------------------------------------------------------------------------

// ConfigError is raised during config resolution. It is always fatal to
// client construction: the client must never start with a failover set that
// could silently change semantics mid-failover.
type ConfigError struct {
	Msg string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("ConfigError: %s", e.Msg)
}

// NewConfigError creates a new ConfigError with the given message.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// newIncompatibleFieldError reports the first mismatching field of a pair,
// naming both cluster identities for diagnostics.
func newIncompatibleFieldError(primaryCluster, alternateCluster, field string) *ConfigError {
	return NewConfigError(
		"alternate config with cluster name %q has a different config than the primary config with cluster name %q for %s",
		alternateCluster, primaryCluster, field,
	)
}

// --------------------------------------------------------------------------
// Compatibility Checker
// --------------------------------------------------------------------------

// fieldCheck compares one must-match field of two configs by value equality.
// Two absent (nil) values are equal, one absent and one present are not.
type fieldCheck struct {
	name  string
	equal func(a, b *ClientConfig) bool
}

// mustMatchFields is the declarative partition of ClientConfig into fields
// that must be identical across a failover pair. Everything not listed here
// (cluster name, credentials, security, network discovery) may legitimately
// differ between clusters that are otherwise interchangeable targets.
var mustMatchFields = []fieldCheck{
	{"executorPoolSize", func(a, b *ClientConfig) bool { return a.ExecutorPoolSize == b.ExecutorPoolSize }},
	{"properties", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.Properties, b.Properties) }},
	{"loadBalancer", func(a, b *ClientConfig) bool { return a.LoadBalancer == b.LoadBalancer }},
	{"listeners", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.Listeners, b.Listeners) }},
	{"instanceName", func(a, b *ClientConfig) bool { return a.InstanceName == b.InstanceName }},
	{"configPatternMatcher", func(a, b *ClientConfig) bool { return a.ConfigPatternMatcher == b.ConfigPatternMatcher }},
	{"nearCache", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.NearCaches, b.NearCaches) }},
	{"reliableTopic", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.ReliableTopics, b.ReliableTopics) }},
	{"queryCacheConfigs", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.QueryCaches, b.QueryCaches) }},
	{"serializationConfig", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.Serialization, b.Serialization) }},
	{"licenseKey", func(a, b *ClientConfig) bool { return a.LicenseKey == b.LicenseKey }},
	{"connectionStrategy", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.ConnectionStrategy, b.ConnectionStrategy) }},
	{"flakeIdGenerator", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.FlakeIDGenerators, b.FlakeIDGenerators) }},
	{"labels", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.Labels, b.Labels) }},
	{"userContext", func(a, b *ClientConfig) bool { return reflect.DeepEqual(a.UserContext, b.UserContext) }},
}

// networkMustMatchFields is the must-match partition of the network section.
// The Discovery sub-section is deliberately absent: it is exactly the part
// expected to differ between failover targets.
var networkMustMatchFields = []struct {
	name  string
	equal func(a, b *NetworkConfig) bool
}{
	{"network:smartRouting", func(a, b *NetworkConfig) bool { return a.SmartRouting == b.SmartRouting }},
	{"network:redoOperation", func(a, b *NetworkConfig) bool { return a.RedoOperation == b.RedoOperation }},
	{"network:connectionTimeout", func(a, b *NetworkConfig) bool { return a.ConnectionTimeout == b.ConnectionTimeout }},
	{"network:connectionAttemptLimit", func(a, b *NetworkConfig) bool { return a.ConnectionAttemptLimit == b.ConnectionAttemptLimit }},
	{"network:connectionAttemptPeriod", func(a, b *NetworkConfig) bool { return a.ConnectionAttemptPeriod == b.ConnectionAttemptPeriod }},
	{"network:socketOptions", func(a, b *NetworkConfig) bool { return a.SocketOptions == b.SocketOptions }},
	{"network:outboundPortDefinitions", func(a, b *NetworkConfig) bool { return reflect.DeepEqual(a.OutboundPortDefinitions, b.OutboundPortDefinitions) }},
	{"network:outboundPorts", func(a, b *NetworkConfig) bool { return reflect.DeepEqual(a.OutboundPorts, b.OutboundPorts) }},
	{"network:clientIcmp", func(a, b *NetworkConfig) bool { return reflect.DeepEqual(a.ICMP, b.ICMP) }},
}

// CheckCompatible validates that alternate is a legal failover target for
// primary: all must-match fields are compared by value equality and the
// first mismatch fails immediately, naming the offending field and both
// cluster identities. Exempt fields (cluster identity, credentials,
// security, network discovery) are never compared.
func CheckCompatible(primary, alternate *ClientConfig) error {
	if err := checkCompatibleNetwork(primary, alternate); err != nil {
		return err
	}

	for _, field := range mustMatchFields {
		if !field.equal(primary, alternate) {
			return newIncompatibleFieldError(primary.ClusterName, alternate.ClusterName, field.name)
		}
	}
	return nil
}

// checkCompatibleNetwork compares the network sections of a pair. A section
// present on exactly one side is itself a mismatch.
func checkCompatibleNetwork(primary, alternate *ClientConfig) error {
	if primary.Network == nil && alternate.Network == nil {
		return nil
	}
	if primary.Network == nil || alternate.Network == nil {
		return newIncompatibleFieldError(primary.ClusterName, alternate.ClusterName, "network")
	}

	for _, field := range networkMustMatchFields {
		if !field.equal(primary.Network, alternate.Network) {
			return newIncompatibleFieldError(primary.ClusterName, alternate.ClusterName, field.name)
		}
	}
	return nil
}
