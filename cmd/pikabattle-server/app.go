package main

import (
	"github.com/ericogr/pikabattle/internal/config"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/service"
)

const defaultAddr = ":8080"

func loadEnvOrExit() config.Env {
	e, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, nil)
	}
	logging.SetLevel(logging.ParseLevel(e.LogLevel))
	return e
}

func bootstrapOrExit(e config.Env) (*service.Runner, *config.LoadedConfig) {
	r, file, err := service.Bootstrap(e)
	if err != nil {
		logging.Fatal("Failed to initialize battle runner", err, logging.Fields{"config_path": e.ConfigPath})
	}
	return r, file
}

// listenAddr prefers the environment, then the prompt file.
func listenAddr(e config.Env, file *config.LoadedConfig) string {
	if e.Addr != "" {
		return e.Addr
	}
	if file != nil && file.ServerAddress != "" {
		return file.ServerAddress
	}
	return defaultAddr
}
