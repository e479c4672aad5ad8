// Package conf implements layered settings for tsconf.
//
// # Usage
//
//	cs := &conf.ConfigSource{
//	    Path:      "/project/tsconf.toml",
//	    DropInDir: "/project/tsconf.toml.d",
//	}
//	config, err := cs.Read()
//	opts := config.CallerOptions()
//
// # Load Order
//
// Settings are loaded and applied in three layers:
//
//  1. Embedded defaults (default.toml)
//  2. Main settings file, usually tsconf.toml next to the project
//  3. Drop-in files: tsconf.toml.d/*.toml, in lexicographic order
//
// A later layer replaces scalar settings it sets. Entries of the
// [compiler-options] table are overlaid key by key. A layer that lists any
// [[rewrite]] entries, or sets rewrite = [], replaces the rewrite list.
//
// # Example
//
//	config-file = "tsconfig.app.json"
//	log-level = "DEBUG"
//	compiler-version = "5.4.5"
//
//	[compiler-options]
//	noEmit = true
//
//	[[rewrite]]
//	suffix = ".ts"
//	extensions = [".vue"]
//
// # Internal Architecture
//
//   - configDTO: internal struct with pointer fields for TOML parsing.
//     Pointers allow distinguishing "not set" (nil) from "set to zero value".
//
//   - Config: public struct with value fields. Has Update() method
//     to apply DTO values.
//
//   - ConfigSource: orchestrates loading from multiple sources and manages
//     their merging.
package conf
