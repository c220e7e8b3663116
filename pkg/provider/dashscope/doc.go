// Package dashscope implements the Provider interface for Alibaba Cloud
// Dashscope multimodal backends (qwen-vl and related models). Dashscope
// speaks its own generation protocol rather than Chat Completions, so this
// adapter carries its own wire types and error mapping for the
// /api/v1/services/aigc/multimodal-generation/generation endpoint.
package dashscope
