package schema

// ClesAPITable represents the 'cles_api' table holding LLM provider keys.
//
// The table holds a single row; keys stored here take precedence over
// environment fallbacks.
type ClesAPITable struct {
	Table       string
	ID          string
	CleOpenAI   string
	CleGemini   string
	CleDeepSeek string
	UpdatedAt   string
}

var ClesAPI = ClesAPITable{
	Table:       "cles_api",
	ID:          "id",
	CleOpenAI:   "cle_openai",
	CleGemini:   "cle_gemini",
	CleDeepSeek: "cle_deepseek",
	UpdatedAt:   "updated_at",
}

func (t ClesAPITable) Columns() []string {
	return []string{t.ID, t.CleOpenAI, t.CleGemini, t.CleDeepSeek, t.UpdatedAt}
}
