// Package webqa answers questions about a website from its own text.
// It crawls a site's same-domain pages, splits the cleaned text into
// token-bounded chunks, embeds every chunk, and answers questions by
// handing the nearest chunks to a completion model as context.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, tiktoken/).
package webqa
