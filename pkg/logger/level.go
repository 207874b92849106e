package logger

import (
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
)

const errUnknownLevelFmt = "unknown log level %q"

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// ParseLevel maps a LOG_LEVEL value to the echo logger level.
// An empty value means info.
func ParseLevel(name string) (log.Lvl, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return log.INFO, nil
	}
	lvl, ok := levels[name]
	if !ok {
		return 0, fmt.Errorf(errUnknownLevelFmt, name)
	}
	return lvl, nil
}
