package domain

// Strategy identifies how a source embeds product data in its responses.
type Strategy string

const (
	// StrategyEmbeddedJSON extracts a JSON document embedded in a known markup tag.
	StrategyEmbeddedJSON Strategy = "embedded_json"
	// StrategyGlobalState extracts a JSON-like object assigned to a named
	// variable in an inline script block.
	StrategyGlobalState Strategy = "global_state"
	// StrategyRenderedDOM drives a headless browser and scrapes the rendered document.
	StrategyRenderedDOM Strategy = "rendered_dom"
)

// SourceDescriptor describes the identity and capability of one pharmacy catalog.
// Descriptors are configured at process start and immutable thereafter.
type SourceDescriptor struct {
	// ID is the stable source identifier, used as a map key
	ID string `json:"id"`
	// DisplayName is the human-readable pharmacy name
	DisplayName string `json:"display_name"`
	// Strategy is the extraction strategy the source requires
	Strategy Strategy `json:"strategy"`
	// Heavy marks fetches that need a rendering engine; heavy fetches are
	// admitted through the governor's slot pool
	Heavy bool `json:"heavy"`
}
