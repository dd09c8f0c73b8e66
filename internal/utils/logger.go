package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger; mode "development" gives console output.
func NewLogger(mode string) (*zap.Logger, error) {
	switch mode {
	case "", "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	}
	return nil, fmt.Errorf("unknown log mode %q", mode)
}
