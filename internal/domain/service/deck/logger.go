package deck

import "github.com/pazhukov/magic-collector/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
