package main

import (
	"context"
	"net/http"
	"time"

	"github.com/r88510179-collab/breakfast-klub/internal/config"
	"github.com/r88510179-collab/breakfast-klub/internal/leagues"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
	"github.com/r88510179-collab/breakfast-klub/internal/logging"
	"github.com/r88510179-collab/breakfast-klub/internal/metrics"
	"github.com/r88510179-collab/breakfast-klub/internal/store"
	httptransport "github.com/r88510179-collab/breakfast-klub/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	primary, verifier := llm.ProvidersFromConfig(cfg.Providers)
	if len(primary) == 0 {
		log.Warn().Msg("no LLM providers configured; slip scan, grading and ask endpoints will fail")
	}
	llmRouter := llm.New(primary, verifier, time.Duration(cfg.Providers.TimeoutSecs)*time.Second)

	resolver := leagues.NewResolver(cfg.Server.ScoreboardIndexURL, time.Duration(cfg.Server.LeagueCacheTTLMins)*time.Minute)

	if cfg.Server.MetricsAddr != "" {
		metrics.StartServer(cfg.Server.MetricsAddr, st.Ping)
		log.Info().Str("addr", cfg.Server.MetricsAddr).Msg("metrics listening")
	}

	r := httptransport.NewRouter(st, cfg.Server, llmRouter, resolver)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
