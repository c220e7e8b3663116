// Package provider defines the backend-agnostic interface for multimodal
// inference providers and the registry that routes requests to them.
//
// Each adapter implementation (openai, dashscope) handles its own backend
// protocol internally and exposes the same surface: capability-bounded
// validation, model support checks, and generation. The registry resolves
// which adapter serves a request, either by an explicit provider name or
// by the model-name prefix convention.
package provider
