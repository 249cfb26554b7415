// Package pconf carries provider construction options. Options are
// applied in order onto a GeneralConfig; each provider reads the fields
// it understands and ignores the rest.
package pconf

import (
	"net/http"

	"cloud.google.com/go/auth"
	"google.golang.org/api/option"
)

type GeneralConfig struct {
	APIKey  string
	BaseURL string

	Language string

	ProjectID string
	Location  string

	HTTPClient *http.Client

	GoogleCredentials   *auth.Credentials
	GoogleClientOptions []option.ClientOption
}

func (GeneralConfig) String() string {
	return "<GeneralConfig [REDACTED]>"
}

type Config interface {
	Apply(g *GeneralConfig) error
}
