// Package logger owns the process-wide zap logger. Init must run before any
// other package touches Log.
package logger

import "go.uber.org/zap"

var Log *zap.Logger

func Init() {
	Log = zap.Must(zap.NewProduction())
}
