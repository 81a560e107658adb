// Package llm provides text-completion clients used to pull transactions out of
// free-form notification text. It supports OpenAI and Anthropic, with response
// caching and request rate limiting layered on top.
package llm
