// Package main is the entry point for the vctstats CLI tool, which ingests
// VCT esports telemetry and computes per-player match statistics.
package main

import "github.com/vct-tools/vctstats/cmd"

func main() {
	cmd.Execute()
}
