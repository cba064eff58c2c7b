// Package config provides a small map-backed configuration wrapper
// with typed accessors and YAML/JSON file loading.
//
// It exists so applications can describe registry settings in a file
// and hand them to flyweight.FromConfig:
//
//	cfg, err := config.FromFile("registry.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	shards := cfg.Int("shards", 1)
//
// Accessors never fail: a missing key or a value of the wrong type
// yields the caller-supplied default.
package config
