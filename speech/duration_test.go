package speech_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/intrusive-memory/hablare/speech"
)

func TestEstimateDurationFloor(t *testing.T) {
	assert.GreaterOrEqual(t, speech.EstimateDuration("").Seconds(), 1.0)
	assert.GreaterOrEqual(t, speech.EstimateDuration("hi").Seconds(), 1.0)
}

func TestEstimateDurationMonotonic(t *testing.T) {
	prev := time.Duration(0)
	for n := 0; n <= 2000; n += 50 {
		d := speech.EstimateDuration(strings.Repeat("a", n))
		assert.GreaterOrEqual(t, d, prev, "length %d", n)
		prev = d
	}
}

func TestEstimateDurationScalesWithLength(t *testing.T) {
	short := speech.EstimateDuration(strings.Repeat("a", 100))
	long := speech.EstimateDuration(strings.Repeat("a", 1000))
	assert.Greater(t, long, short)

	// The buffer factor pads the raw character-rate estimate.
	raw := 1000.0 / 15.0
	assert.Greater(t, long.Seconds(), raw)
}

func TestEstimateDurationCountsRunes(t *testing.T) {
	ascii := speech.EstimateDuration(strings.Repeat("a", 40))
	accented := speech.EstimateDuration(strings.Repeat("é", 40))
	assert.Equal(t, ascii, accented)
}
