package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/intrusive-memory/hablare"
	"github.com/intrusive-memory/hablare/speech"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

type ttsRequest struct {
	Text          string           `json:"text"`
	ModelID       string           `json:"model_id"`
	VoiceSettings ttsVoiceSettings `json:"voice_settings"`
}

type ttsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type apiClient struct {
	baseURL     string
	authHandler func(r *http.Request) error

	httpClient *http.Client
}

var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:    16,
		IdleConnTimeout: 30 * time.Second,
	},
}

func newAPIClient(apiKey, baseURL string, httpClient *http.Client) *apiClient {
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = sharedHTTPClient
	}
	return &apiClient{
		baseURL: baseURL,
		authHandler: func(r *http.Request) error {
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set("xi-api-key", apiKey)
			r.Header.Set("User-Agent", "hablare/"+hablare.Version)
			return nil
		},
		httpClient: httpClient,
	}
}

func (c *apiClient) requestTTS(ctx context.Context, voiceID string, req ttsRequest) ([]byte, error) {
	u, err := url.JoinPath(c.baseURL, "/text-to-speech/"+voiceID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	r, _ := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(data))
	if err := c.authHandler(r); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: synthesis returned %d: %s",
			speech.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func (c *apiClient) requestVoiceList(ctx context.Context) ([]speech.Voice, error) {
	u, err := url.JoinPath(c.baseURL, "/voices")
	if err != nil {
		return nil, err
	}

	r, _ := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err := c.authHandler(r); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: voice listing returned %d: %s",
			speech.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseVoiceList(body)
}

// parseVoiceList walks the /voices payload without a full struct
// mapping. Gender and language live in nested metadata that the API
// omits freely; absent fields become empty attributes, never errors.
func parseVoiceList(body []byte) ([]speech.Voice, error) {
	var p fastjson.Parser
	root, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrInvalidResponse, err)
	}

	items := root.GetArray("voices")
	if items == nil {
		return nil, fmt.Errorf("%w: missing voices array", speech.ErrInvalidResponse)
	}

	voices := make([]speech.Voice, 0, len(items))
	for _, item := range items {
		id := string(item.GetStringBytes("voice_id"))
		if id == "" {
			continue
		}
		language := string(item.GetStringBytes("labels", "language"))
		if language == "" {
			language = string(item.GetStringBytes("fine_tuning", "language"))
		}
		voices = append(voices, speech.Voice{
			ID:         id,
			Name:       string(item.GetStringBytes("name")),
			ProviderID: ProviderID,
			Language:   language,
			Gender:     string(item.GetStringBytes("labels", "gender")),
		})
	}

	return voices, nil
}
