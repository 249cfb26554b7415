package screenplay

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/intrusive-memory/hablare"
)

// Result pairs one speakable element with its generation outcome.
type Result struct {
	Element    *Element
	Generation *hablare.GenerationResult
	Err        error
}

// Generator walks an element tree and synthesizes every speakable
// element through a coordinator. Elements already present in the
// coordinator's record store come back cached without regeneration.
type Generator struct {
	coordinator *hablare.Coordinator
	voices      *VoiceMap
	logger      *log.Logger

	// IncludeAction speaks action lines with the narrator voice.
	IncludeAction bool
}

// NewGenerator builds a batch generator. logger may be nil.
func NewGenerator(coordinator *hablare.Coordinator, voices *VoiceMap, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		coordinator: coordinator,
		voices:      voices,
		logger:      logger,
	}
}

// GenerateDocument synthesizes audio for the whole tree. A failing
// element is recorded in its Result and does not stop the batch; the
// returned error is non-nil only when the tree contains nothing
// speakable or no element has a resolvable voice.
func (g *Generator) GenerateDocument(ctx context.Context, root *Element) ([]Result, error) {
	var speakable []*Element
	root.Walk(func(e *Element) {
		if e.Speakable(g.IncludeAction) {
			speakable = append(speakable, e)
		}
	})
	if len(speakable) == 0 {
		return nil, fmt.Errorf("document has no speakable elements")
	}

	results := make([]Result, 0, len(speakable))
	generated, cached, failed := 0, 0, 0
	for _, e := range speakable {
		res := g.generateElement(ctx, e)
		switch {
		case res.Err != nil:
			failed++
			g.logger.Warn("element generation failed",
				"element", e.ID, "character", e.Character, "err", res.Err)
		case res.Generation.Cached:
			cached++
		default:
			generated++
		}
		results = append(results, res)
	}

	g.logger.Info("batch generation finished",
		"elements", len(speakable), "generated", generated,
		"cached", cached, "failed", failed)

	if failed == len(speakable) {
		return results, fmt.Errorf("all %d elements failed", failed)
	}
	return results, nil
}

func (g *Generator) generateElement(ctx context.Context, e *Element) Result {
	var (
		voice hablare.VoiceURI
		ok    bool
	)
	if e.Type == ElementAction {
		voice, ok = g.voices.NarratorVoice()
	} else {
		voice, ok = g.voices.Resolve(e.Character)
	}
	if !ok {
		return Result{Element: e, Err: fmt.Errorf("no voice assignment for %q", e.Character)}
	}

	gen, err := g.coordinator.Generate(ctx, hablare.GenerateParams{
		Text:        e.Text,
		ProviderID:  voice.ProviderID,
		VoiceID:     voice.VoiceID,
		Language:    voice.Language,
		RequestorID: e.ID,
	})
	if err != nil {
		return Result{Element: e, Err: err}
	}

	g.logger.Debug("element synthesized",
		"element", e.ID, "provider", voice.ProviderID,
		"voice", voice.VoiceID, "cached", gen.Cached)

	return Result{Element: e, Generation: gen}
}
