package system

import (
	"regexp"
	"strings"

	"github.com/intrusive-memory/hablare/speech"
)

// say -v ? lines look like:
//
//	Alex                en_US    # Most people recognize me by my voice.
//	Amélie (Enhanced)   fr_CA    # Bonjour! Je m’appelle Amélie.
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}([a-zA-Z]{2,3}[_-][A-Za-z]{2,})\s+#`)

func parseSayVoices(out []byte) []speech.Voice {
	var voices []speech.Voice
	for _, line := range strings.Split(string(out), "\n") {
		m := sayVoiceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		locale := m[2]
		voices = append(voices, speech.Voice{
			ID:         name,
			Name:       name,
			ProviderID: ProviderID,
			Language:   languageOf(locale),
			Locality:   localityOf(locale),
			Quality:    qualityOf(name),
		})
	}
	return voices
}

// espeak-ng --voices columns:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-gb           M  english             gmw/en
func parseEspeakVoices(out []byte) []speech.Voice {
	var voices []speech.Voice
	for i, line := range strings.Split(string(out), "\n") {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		language := fields[1]
		voices = append(voices, speech.Voice{
			ID:         fields[3],
			Name:       fields[3],
			ProviderID: ProviderID,
			Language:   languageOf(language),
			Locality:   localityOf(language),
			Gender:     genderOf(fields[2]),
		})
	}
	return voices
}

// qualityOf derives the tier from the canonical voice name. Platform
// voice catalogs mark their better tiers in parentheses.
func qualityOf(name string) speech.Quality {
	switch {
	case strings.Contains(name, "(Premium)"):
		return speech.QualityPremium
	case strings.Contains(name, "(Enhanced)"):
		return speech.QualityEnhanced
	default:
		return speech.QualityDefault
	}
}

func genderOf(ageGender string) string {
	switch {
	case strings.HasSuffix(ageGender, "M"):
		return "male"
	case strings.HasSuffix(ageGender, "F"):
		return "female"
	}
	return ""
}

func languageOf(locale string) string {
	locale = strings.ReplaceAll(locale, "_", "-")
	if i := strings.Index(locale, "-"); i > 0 {
		return locale[:i] + "-" + strings.ToUpper(locale[i+1:])
	}
	return locale
}

func localityOf(locale string) string {
	locale = strings.ReplaceAll(locale, "_", "-")
	if i := strings.Index(locale, "-"); i > 0 {
		return strings.ToUpper(locale[i+1:])
	}
	return ""
}
