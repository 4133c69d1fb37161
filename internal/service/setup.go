package service

import (
	"fmt"
	"net/http"

	"github.com/ericogr/pikabattle/internal/agent"
	"github.com/ericogr/pikabattle/internal/config"
	"github.com/ericogr/pikabattle/internal/narration"
	"github.com/ericogr/pikabattle/internal/storage"
	"github.com/ericogr/pikabattle/internal/textgen"
)

// NewGenerator returns the network client configured by e.
func NewGenerator(e config.Env, hc *http.Client) textgen.Generator {
	return textgen.NewClient(textgen.ClientConfig{
		BaseURL:    e.BaseURL,
		APIKey:     e.APIKey,
		RequireKey: e.RequiresKey(),
		HTTPClient: hc,
		Timeout:    e.Timeout,
		Retries:    e.Retries,
	})
}

// NewRunner wires a Runner from process configuration. gen may be nil,
// which behaves like offline mode: random moves and no narration. file
// and repo are optional.
func NewRunner(e config.Env, file *config.LoadedConfig, gen textgen.Generator, repo storage.Repository) *Runner {
	r := &Runner{MaxRounds: e.MaxRounds, Seed: e.Seed}
	var prompts config.Prompts
	if file != nil {
		prompts = file.Prompts
		r.Guidance = file.Guidance
	}
	if e.Offline || gen == nil {
		return r
	}
	r.Decider = agent.NewLLMDecider(gen, e.DecisionModel, prompts.Decision)
	r.Narrator = narration.New(narration.Config{
		Generator:  gen,
		Repo:       repo,
		StartModel: e.NarrationModel,
		SceneModel: e.SceneModel,
		Templates:  narration.Templates{Start: prompts.Start, Scene: prompts.Scene, Final: prompts.Final, Draw: prompts.Draw},
	})
	return r
}

// Bootstrap loads the optional prompt file, opens the narration cache and
// returns a Runner ready for battles. The loaded file, if any, is returned
// for callers that need its other settings.
func Bootstrap(e config.Env) (*Runner, *config.LoadedConfig, error) {
	var file *config.LoadedConfig
	if e.ConfigPath != "" {
		f, err := config.LoadConfig(e.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
		file = f
	}
	if e.Offline {
		return NewRunner(e, file, nil, nil), file, nil
	}
	db, err := storage.OpenAndMigrate(e.CacheDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open narration cache: %w", err)
	}
	repo := storage.NewSQLiteRepository(db)
	return NewRunner(e, file, NewGenerator(e, nil), repo), file, nil
}
