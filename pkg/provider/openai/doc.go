// Package openai implements the Provider interface for the OpenAI API and
// any OpenAI-compatible deployment. The adapter delegates all HTTP
// communication to the shared openaicompat.Client and adds the OpenAI
// vision limits: up to 5 images and 5 files per request, jpeg/png/gif/webp
// image attachments.
package openai
