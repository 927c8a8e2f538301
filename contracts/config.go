package contracts

import "time"

type InstallConfig struct {
	JSONPath    string
	Destination string
	Timeout     time.Duration
	LogLevel    string
	Descriptor  ApplicationDescriptor
}
