package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/agents/dental"
	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/agents/orchestrator"
	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/audit"
	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	statex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/state"
	"github.com/Hrhcoolshegs/openai-realtime-agents/api"
	configx "github.com/Hrhcoolshegs/openai-realtime-agents/pkg/config"
	_ "github.com/Hrhcoolshegs/openai-realtime-agents/pkg/logger/autoload"
	"github.com/Hrhcoolshegs/openai-realtime-agents/pkg/realtime"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openaiCfg := configx.MustNew[realtime.Config]("OPENAI")
	httpCfg := configx.MustNew[api.Config]("HTTP")
	redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	auditCfg := configx.MustNew[audit.Config]("AUDIT")

	if err := realtime.ValidateKey(openaiCfg.APIKey); err != nil {
		// Sessions fail per request until the key is fixed.
		log.Warn().Err(err).Msg("openai credential not usable")
	}

	scenario, err := dental.New()
	if err != nil {
		log.Fatal().Err(err).Msg("build scenario")
	}

	var store statex.Store = statex.NewMemoryStore()
	if redisCfg.Enabled() {
		redisStore, err := statex.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init upstash redis store")
		}
		store = redisStore
		log.Info().Msg("conversations stored in upstash redis")
	}

	var journal contractx.Journal = audit.Nop{}
	if auditCfg.Enabled() {
		bunJournal, err := audit.OpenBunJournal(ctx, *auditCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("open audit journal")
		}
		defer bunJournal.Close()
		journal = bunJournal
		log.Info().Msg("tool invocations journaled to postgres")
	}

	service, err := orchestrator.New(scenario, store, journal)
	if err != nil {
		log.Fatal().Err(err).Msg("init orchestrator")
	}

	for _, agent := range scenario.Agents() {
		infos, err := scenario.ToolInfos(agent.Name)
		if err != nil {
			log.Fatal().Err(err).Str("agent", string(agent.Name)).Msg("tool schemas")
		}
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.Name)
		}
		log.Info().
			Str("agent", string(agent.Name)).
			Strs("tools", names).
			Int("handoffs", len(scenario.Graph().Targets(agent.Name))).
			Msg("agent ready")
	}
	log.Info().
		Str("scenario", scenario.Name()).
		Str("default_agent", string(scenario.DefaultAgent())).
		Int("handoff_edges", len(scenario.Graph().Edges())).
		Msg("scenario loaded")

	server := api.NewServer(*httpCfg, realtime.NewClient(*openaiCfg), service)
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
}
