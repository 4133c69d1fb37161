package constants

import "time"

// Centralized constants for headers, env keys and OpenAI integration.
const (
	// Environment variable keys
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvConfigPath   = "PIKABATTLE_CONFIG"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI-compatible endpoints. Ollama and LM Studio expose the same
	// chat completions path under their own base URL.
	OpenAIBaseURL             = "https://api.openai.com"
	OllamaBaseURL             = "http://localhost:11434"
	LocalBaseURL              = "http://localhost:1234"
	OpenAIChatCompletionsPath = "/v1/chat/completions"

	// Model names used for each kind of call
	OpenAIDecisionModel  = "gpt-4o"
	OpenAINarrationModel = "gpt-4o-mini"
	OpenAISceneModel     = "gpt-3.5-turbo"
	OllamaDefaultModel   = "llama2"
	LocalDefaultModel    = "local-model"

	// Typical completion parameters
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
)

// Providers understood by the text generation client.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderLocal  = "local"
)

// Routes used by the HTTP server
const (
	RouteHealth        = "/healthz"
	RouteAPIPrefix     = "/api"
	RouteVersion       = "/version"
	RouteMoves         = "/moves"
	RouteStages        = "/stages"
	RouteBattles       = "/battles"
	RouteBattlesStream = "/battles/stream"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrInvalidMaxRounds = "max_rounds must be between 1 and 500"
	ErrBattleFailed     = "Battle could not be completed"
	ErrUnknownStage     = "Unknown stage"
)

// Logging field names
const (
	LogFieldBattleID  = "battle_id"
	LogFieldRound     = "round"
	LogFieldCombatant = "combatant"
	LogFieldMove      = "move"
	LogFieldStage     = "stage"
	LogFieldModel     = "model"
	LogFieldSource    = "source"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
	LogFieldAttempt   = "attempt"
)
