package v2

import (
	log "github.com/ipfs/go-log"
)

// LogName of the simulation logger
const LogName = "taxis-demo/v2"

// empty marks a seat without passenger
const empty = -1

var logger = log.Logger(LogName)
