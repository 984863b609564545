package constants

import "os"

// DefaultResolution is the ticks-per-quarter fallback when the source file
// carries no metric resolution.
const DefaultResolution = 480

// DefaultTempo applies to any hand that carries no metronome mark.
const DefaultTempo float64 = 120

const MetadataTable = "pianovision-metadata"

func GetMetadataDBEndpoint() string {
	return os.Getenv("METADATA_DB_ENDPOINT")
}

func GetAgentBaseURL() string {
	url := os.Getenv("AGENT_BASE_URL")
	if url != "" {
		return url
	}
	// LM Studio's OpenAI-compatible default
	return "http://localhost:1234/v1"
}

func GetAgentAPIKey() string {
	key := os.Getenv("AGENT_API_KEY")
	if key != "" {
		return key
	}
	return "lm-studio"
}
