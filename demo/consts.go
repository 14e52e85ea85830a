package demo

import (
	log "github.com/ipfs/go-log"
)

const (
	defaultConfigFile = "default.yaml"
	configFolder      = "configs"

	// LogName of the configuration logger
	LogName = "taxis-demo"

	// Seats is the number of passengers a taxi can carry at once.
	Seats = 4
)

var logger = log.Logger(LogName)
