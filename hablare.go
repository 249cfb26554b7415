// Package hablare unifies speech-synthesis backends behind a single
// provider interface, with a registry of providers, a generation
// coordinator and persisted deduplication of generated audio.
package hablare

// Version is reported to remote providers in the client identification
// header.
const Version = "0.3.0"
