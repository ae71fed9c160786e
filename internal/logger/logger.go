package logger

import "go.uber.org/zap"

// New returns a development logger for the development environment and a
// production JSON logger for everything else.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Must is New that panics on error; for use in main.
func Must(env string) *zap.Logger {
	log, err := New(env)
	if err != nil {
		panic(err)
	}
	return log
}
