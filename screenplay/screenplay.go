// Package screenplay batch-generates audio for screenplay-like element
// trees. Each speakable element is routed to a provider voice through a
// character-to-voice assignment of Voice-URI strings.
package screenplay

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/intrusive-memory/hablare"
)

// ElementType classifies a screenplay element.
type ElementType string

const (
	ElementSceneHeading  ElementType = "scene_heading"
	ElementAction        ElementType = "action"
	ElementCharacter     ElementType = "character"
	ElementDialogue      ElementType = "dialogue"
	ElementParenthetical ElementType = "parenthetical"
	ElementTransition    ElementType = "transition"
)

// Element is a node in a screenplay tree. Dialogue elements carry the
// speaking character's name; structural elements carry children.
type Element struct {
	ID        string      `yaml:"id"`
	Type      ElementType `yaml:"type"`
	Text      string      `yaml:"text,omitempty"`
	Character string      `yaml:"character,omitempty"`
	Children  []*Element  `yaml:"children,omitempty"`
}

// Walk visits the element and its descendants depth-first.
func (e *Element) Walk(fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Speakable reports whether the element produces audio in a batch run.
// Dialogue always speaks; action speaks only when a narrator voice is
// requested.
func (e *Element) Speakable(includeAction bool) bool {
	switch e.Type {
	case ElementDialogue:
		return strings.TrimSpace(e.Text) != ""
	case ElementAction:
		return includeAction && strings.TrimSpace(e.Text) != ""
	}
	return false
}

// LoadDocument reads a YAML-serialized element tree.
func LoadDocument(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument decodes a YAML-serialized element tree.
func ParseDocument(data []byte) (*Element, error) {
	var root Element
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &root, nil
}

// VoiceMap assigns characters to voices by Voice-URI string. Lookups
// are case-insensitive; the Narrator entry covers action lines and the
// Default entry covers characters with no assignment.
type VoiceMap struct {
	Default    string            `yaml:"default,omitempty"`
	Narrator   string            `yaml:"narrator,omitempty"`
	Characters map[string]string `yaml:"characters"`
}

// LoadVoiceMap reads a YAML voice map from path.
func LoadVoiceMap(path string) (*VoiceMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVoiceMap(data)
}

// ParseVoiceMap decodes a YAML voice map.
func ParseVoiceMap(data []byte) (*VoiceMap, error) {
	var m VoiceMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode voice map: %w", err)
	}
	return &m, nil
}

// Resolve returns the voice for a character, falling back to the
// default assignment. ok is false when neither resolves to a parseable
// Voice URI.
func (m *VoiceMap) Resolve(character string) (hablare.VoiceURI, bool) {
	for name, uri := range m.Characters {
		if strings.EqualFold(name, character) {
			if parsed, ok := hablare.ParseVoiceURI(uri); ok {
				return parsed, true
			}
			break
		}
	}
	if m.Default != "" {
		return hablare.ParseVoiceURI(m.Default)
	}
	return hablare.VoiceURI{}, false
}

// NarratorVoice returns the voice for action lines, falling back to the
// default assignment.
func (m *VoiceMap) NarratorVoice() (hablare.VoiceURI, bool) {
	if m.Narrator != "" {
		return hablare.ParseVoiceURI(m.Narrator)
	}
	if m.Default != "" {
		return hablare.ParseVoiceURI(m.Default)
	}
	return hablare.VoiceURI{}, false
}
