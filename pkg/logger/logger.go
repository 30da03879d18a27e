package logger

import (
	"go.uber.org/zap"
)

type Sugared = *zap.SugaredLogger

// New returns a JSON production logger for prod and a console development logger otherwise.
func New(env string) Sugared {
	var (
		z   *zap.Logger
		err error
	)
	if env == "prod" {
		z, err = zap.NewProduction()
	} else {
		z, err = zap.NewDevelopment()
	}
	if err != nil || z == nil {
		return Nop()
	}
	return z.Sugar()
}

// Nop discards everything. Used where a logger is optional.
func Nop() Sugared {
	return zap.NewNop().Sugar()
}
