package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger. Debug mode switches to the development
// config with human-readable output.
func New(debug bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}
