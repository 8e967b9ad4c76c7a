// Package main is the single-binary entrypoint for aeonisd, the deterministic
// planetary tick engine.
package main

import "github.com/aeonis-sim/aeonis/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
