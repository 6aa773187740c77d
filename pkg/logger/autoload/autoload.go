// Package autoload initialises the global logger from LOG_* variables when
// imported.
package autoload

import (
	configx "github.com/Hrhcoolshegs/openai-realtime-agents/pkg/config"
	logx "github.com/Hrhcoolshegs/openai-realtime-agents/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
