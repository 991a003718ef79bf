package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"cubby/internal/config"
	"cubby/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "path to the cubby config file")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	cfg, resolvedPath, exists, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Print(describeConfigSource(resolvedPath, exists))

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *logLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func describeConfigSource(path string, exists bool) string {
	if exists {
		return "using config file at " + path
	}
	return "no config file at " + path + "; defaults in effect"
}
