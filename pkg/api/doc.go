// Package api defines the request, response, and error types for the
// vllm-mcp gateway.
//
// The gateway accepts multimodal generation requests from text-only MCP
// clients and relays them to vision-capable backends. This package holds
// the provider-neutral shapes those tool calls exchange: [MultimodalRequest],
// [MultimodalResponse], [ValidationResult], [ProviderInfo], the [Error]
// taxonomy, and invocation ID generation.
//
// The package has zero external dependencies (Go standard library only) and
// performs no I/O. Provider adapters translate these types to their backend
// wire formats, and every failure a tool reports is carried as an [Error],
// so clients see one stable error shape regardless of backend.
package api
