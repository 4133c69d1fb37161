package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ericogr/pikabattle/internal/constants"
)

var (
	ErrMissingAPIKey    = errors.New("api key is required for the openai provider")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrInvalidMaxRounds = errors.New("max rounds must be between 1 and 500")
)

// MaxRoundsLimit bounds the configurable round cap.
const MaxRoundsLimit = 500

// Env is the process configuration read from environment variables.
type Env struct {
	APIKey         string        `env:"OPENAI_API_KEY"`
	Provider       string        `env:"PIKABATTLE_PROVIDER" envDefault:"openai"`
	BaseURL        string        `env:"PIKABATTLE_BASE_URL"`
	DecisionModel  string        `env:"PIKABATTLE_DECISION_MODEL"`
	NarrationModel string        `env:"PIKABATTLE_NARRATION_MODEL"`
	SceneModel     string        `env:"PIKABATTLE_SCENE_MODEL"`
	MaxRounds      int           `env:"PIKABATTLE_MAX_ROUNDS" envDefault:"50"`
	Seed           int64         `env:"PIKABATTLE_SEED" envDefault:"0"`
	Timeout        time.Duration `env:"PIKABATTLE_TIMEOUT" envDefault:"30s"`
	Retries        int           `env:"PIKABATTLE_RETRIES" envDefault:"2"`
	Offline        bool          `env:"PIKABATTLE_OFFLINE"`
	LogLevel       string        `env:"PIKABATTLE_LOG_LEVEL" envDefault:"info"`
	CacheDB        string        `env:"PIKABATTLE_CACHE_DB" envDefault:"file::memory:?cache=shared"`
	ConfigPath     string        `env:"PIKABATTLE_CONFIG"`
	Addr           string        `env:"PIKABATTLE_ADDR"`
}

// ParseEnv loads Env from the process environment and applies provider
// presets.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e.resolve()
}

// ParseEnvFrom is ParseEnv over an explicit variable set.
func ParseEnvFrom(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e.resolve()
}

type preset struct {
	baseURL   string
	decision  string
	narration string
	scene     string
}

var presets = map[string]preset{
	constants.ProviderOpenAI: {constants.OpenAIBaseURL, constants.OpenAIDecisionModel, constants.OpenAINarrationModel, constants.OpenAISceneModel},
	constants.ProviderOllama: {constants.OllamaBaseURL, constants.OllamaDefaultModel, constants.OllamaDefaultModel, constants.OllamaDefaultModel},
	constants.ProviderLocal:  {constants.LocalBaseURL, constants.LocalDefaultModel, constants.LocalDefaultModel, constants.LocalDefaultModel},
}

func (e Env) resolve() (Env, error) {
	e.Provider = strings.ToLower(strings.TrimSpace(e.Provider))
	p, ok := presets[e.Provider]
	if !ok {
		return Env{}, fmt.Errorf("%w: %q", ErrUnknownProvider, e.Provider)
	}
	if e.BaseURL == "" {
		e.BaseURL = p.baseURL
	}
	if e.DecisionModel == "" {
		e.DecisionModel = p.decision
	}
	if e.NarrationModel == "" {
		e.NarrationModel = p.narration
	}
	if e.SceneModel == "" {
		e.SceneModel = p.scene
	}
	if e.MaxRounds < 1 || e.MaxRounds > MaxRoundsLimit {
		return Env{}, fmt.Errorf("%w: got %d", ErrInvalidMaxRounds, e.MaxRounds)
	}
	if e.Retries < 0 {
		e.Retries = 0
	}
	if !e.Offline && e.RequiresKey() && strings.TrimSpace(e.APIKey) == "" {
		return Env{}, fmt.Errorf("%s: %w", constants.EnvOpenAIAPIKey, ErrMissingAPIKey)
	}
	return e, nil
}

// RequiresKey reports whether the provider rejects anonymous calls.
func (e Env) RequiresKey() bool {
	return e.Provider == constants.ProviderOpenAI
}
