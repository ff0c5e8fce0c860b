// Package clientcfg provides client-side cluster configuration: loading,
// defaulting, and - its central concern - validation of failover (blue/green)
// configurations before any connection is attempted.
//
// A FailoverConfig is an ordered list of per-cluster ClientConfig values; the
// first entry is the home cluster, every later entry a fallback the client
// may switch to at runtime. Switching clusters must never silently change
// client semantics, so the resolver validates up front that every fallback is
// structurally interchangeable with the primary.
//
// Compatibility Model:
//
//	Whole-object equality would be wrong here: failover targets are expected
//	to differ in exactly the fields that identify a cluster. The checker
//	therefore partitions ClientConfig into two disjoint sets:
//
//	- Must match: serialization format, executor pool size, listener and
//	  per-primitive tuning maps, connection strategy, labels, user context,
//	  license key, and the behavioral network fields (smart routing, redo
//	  operation, timeouts, attempt limits, socket options, outbound ports,
//	  ICMP probing). A mismatch in any of these fails resolution, naming the
//	  offending field and both cluster names.
//
//	- Exempt: cluster name, credentials, security settings, and the
//	  discovery part of the network config. These are exactly the fields
//	  expected to differ between interchangeable clusters.
//
//	The field partition is declarative (a list of named equality checks), so
//	the exempt set is explicit and auditable rather than implied by code
//	structure. Absent optional sections compare as equal to each other; a
//	section present on exactly one side is a first-class mismatch.
//
// Resolution:
//
//	ResolveFailover / ResolveSingle / Resolve produce a validated
//	FailoverConfig or a *ConfigError, never a partially valid result. A
//	ConfigError aborts client construction entirely.
//
// Loading:
//
//	When no explicit config is passed, the loader searches for a file: the
//	location named by a DCOUNT_*_CONFIG environment variable first, then
//	dcount-client.* / dcount-failover.* in the working directory. The first
//	located source wins, sources are never merged. Files are parsed with
//	viper (yaml, json or toml).
package clientcfg
