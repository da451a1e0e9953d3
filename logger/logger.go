// Package logger initializes the shared zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a configured *zap.Logger. Development mode switches to the
// human-readable console encoder with debug level enabled.
func New(development bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l, nil
}
