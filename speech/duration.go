package speech

import "time"

// Speaking-rate heuristic. Roughly 15 characters per second of speech,
// padded by a buffer factor so batch schedulers overestimate rather
// than underestimate. The floor keeps even empty prompts at a playable
// minimum.
const (
	charsPerSecond = 15.0
	bufferFactor   = 1.2
	minimumSeconds = 1.0
)

// EstimateDuration returns a cheap pre-generation estimate of how long
// the synthesized speech for text will run. It is a pure function of
// character count: no synthesis happens and the result is never an
// exact measurement of any produced audio.
func EstimateDuration(text string) time.Duration {
	secs := float64(len([]rune(text))) / charsPerSecond * bufferFactor
	if secs < minimumSeconds {
		secs = minimumSeconds
	}
	return time.Duration(secs * float64(time.Second))
}
