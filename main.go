// Package main is the entry point for the bbmetrics CLI tool, which ingests
// batted-ball and pitch-tracking exports and computes player/team metrics.
package main

import "github.com/pable/go-bb-metrics/cmd"

func main() {
	cmd.Execute()
}
