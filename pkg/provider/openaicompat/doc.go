// Package openaicompat provides shared client code for any OpenAI-compatible
// Chat Completions backend. It handles request serialization, multimodal
// content-part assembly, response parsing, and error mapping into the
// gateway taxonomy.
//
// Provider adapters for Chat Completions backends (openai, and any future
// vLLM-style deployment) hold a Client from this package and delegate their
// HTTP communication to it.
package openaicompat
