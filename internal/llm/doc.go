// Package llm provides the LLM-backed recommendation pipeline: provider
// clients (Anthropic, OpenAI), the session prompt builder, and the tolerant
// free-text parser that turns model replies into typed recommendations.
package llm
