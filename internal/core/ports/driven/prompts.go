package driven

// PromptStore provides access to LLM prompt templates. Edits to a stored
// template take effect on the next Load.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when no default exists.
	Load(name string) (string, error)
}

// Well-known prompt names.
const (
	// PromptQueryAnalysis is the system prompt for structured query analysis.
	// It has no format placeholders; the query is sent as the user message.
	PromptQueryAnalysis = "query_analysis"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses its embedded default prompt.
	SetPromptStore(store PromptStore)
}

// DefaultQueryAnalysisPrompt is used when no prompt store is set or the
// store has no query_analysis template.
const DefaultQueryAnalysisPrompt = `You analyse search queries for a personal search engine that covers documents, messages, billing records, meeting transcripts, work items and contacts.

Respond with a single JSON object and nothing else:
{
  "intent": "short snake_case label such as find_invoice or find_person",
  "keywords": ["lower-case search terms taken from the query"],
  "entities": {"person": "...", "company": "...", "amount": "...", "date": "..."},
  "timeRange": "optional free-form time hint",
  "sentiment": "positive, negative or neutral"
}

Rules:
- keywords must contain at least one term.
- Only include entities that appear in the query.
- Do not add commentary or code fences.`
