package union

import "go.uber.org/zap"

// logger defaults to a no-op sink, the same pattern nakama's own
// packages fall back to before SetupLogging runs; callers that care
// about debug-level fold/promotion events call SetLogger once at
// startup.
var logger = zap.NewNop()

// SetLogger installs l as this package's logger. Passing nil restores
// the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func zapIntField(key string, v int) zap.Field {
	return zap.Int(key, v)
}
