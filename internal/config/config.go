package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type guidanceEntry struct {
	Combatant string `json:"combatant" yaml:"combatant"`
	Text      string `json:"text" yaml:"text"`
}

type rawConfig struct {
	// Optional prompt templates. Each may use the tokens listed in
	// allowedTokens for its field.
	DecisionPrompt string `json:"decision_prompt" yaml:"decision_prompt"`
	StartPrompt    string `json:"start_prompt" yaml:"start_prompt"`
	ScenePrompt    string `json:"scene_prompt" yaml:"scene_prompt"`
	FinalPrompt    string `json:"final_prompt" yaml:"final_prompt"`
	DrawPrompt     string `json:"draw_prompt" yaml:"draw_prompt"`
	// Trainer guidance appended to a combatant's system prompt.
	Guidance []guidanceEntry `json:"guidance" yaml:"guidance"`
	Server   *struct {
		Address string `json:"address" yaml:"address"`
	} `json:"server" yaml:"server"`
}

// Prompts holds optional template overrides; empty fields keep the
// built-in prompts.
type Prompts struct {
	Decision string
	Start    string
	Scene    string
	Final    string
	Draw     string
}

// LoadedConfig is the parsed prompt file.
type LoadedConfig struct {
	Prompts Prompts
	// Guidance maps a combatant name to trainer guidance.
	Guidance      map[string]string
	ServerAddress string
}

var tokenPattern = regexp.MustCompile(`{{\s*([a-z_]+)\s*}}`)

var (
	decisionTokens  = []string{"name", "stats", "strategy", "moves"}
	narrationTokens = []string{"stage", "effect", "leader", "trailer", "diff", "round", "first", "second"}
)

func checkTokens(path, field, tmpl string, allowed []string) error {
	for _, m := range tokenPattern.FindAllStringSubmatch(tmpl, -1) {
		ok := false
		for _, a := range allowed {
			if m[1] == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("config file %s: %s uses unknown token {{%s}}", path, field, m[1])
		}
	}
	return nil
}

// LoadConfig reads the prompt file at path. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	p := Prompts{
		Decision: strings.TrimSpace(rc.DecisionPrompt),
		Start:    strings.TrimSpace(rc.StartPrompt),
		Scene:    strings.TrimSpace(rc.ScenePrompt),
		Final:    strings.TrimSpace(rc.FinalPrompt),
		Draw:     strings.TrimSpace(rc.DrawPrompt),
	}
	if err := checkTokens(path, "decision_prompt", p.Decision, decisionTokens); err != nil {
		return nil, err
	}
	for field, tmpl := range map[string]string{"start_prompt": p.Start, "scene_prompt": p.Scene, "final_prompt": p.Final, "draw_prompt": p.Draw} {
		if err := checkTokens(path, field, tmpl, narrationTokens); err != nil {
			return nil, err
		}
	}

	guidance := make(map[string]string, len(rc.Guidance))
	for _, g := range rc.Guidance {
		name := strings.TrimSpace(g.Combatant)
		if name == "" {
			return nil, fmt.Errorf("config file %s: guidance entry missing 'combatant'", path)
		}
		if _, exists := guidance[name]; exists {
			return nil, fmt.Errorf("config file %s: duplicate guidance for '%s'", path, name)
		}
		guidance[name] = strings.TrimSpace(g.Text)
	}

	addr := ""
	if rc.Server != nil {
		addr = strings.TrimSpace(rc.Server.Address)
	}

	return &LoadedConfig{Prompts: p, Guidance: guidance, ServerAddress: addr}, nil
}
