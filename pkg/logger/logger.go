package logx

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `split_words:"true" default:"realtime-agents"`
}

var DefaultConfig = &Config{
	Debug:        false,
	PrettyFormat: false,
	Service:      "realtime-agents",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	log.Logger = New(os.Stdout, opts...)
}

// New builds the process logger writing to w.
func New(w io.Writer, opts ...Config) zerolog.Logger {
	conf := safe(opts...)

	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w}
	}
	ctx := zerolog.New(w).With().Timestamp()
	if conf.Service != "" {
		ctx = ctx.Str("service", conf.Service)
	}
	logger := ctx.Logger()

	if conf.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger.With().Caller().Stack().Logger()
}

// WithConversation returns ctx carrying a child of the global logger tagged
// with the conversation id.
func WithConversation(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	l := log.Logger.With().Str("conversation_id", id).Logger()
	return l.WithContext(ctx)
}

// From returns the logger stored in ctx, falling back to the global logger.
func From(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}
