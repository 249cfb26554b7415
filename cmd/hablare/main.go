// Command hablare is a small front end over the library: list voices,
// synthesize a line of text, or batch-generate a screenplay document.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lemon-mint/godotenv"
	"github.com/spf13/cobra"

	"github.com/intrusive-memory/hablare"
	"github.com/intrusive-memory/hablare/credstore"
	"github.com/intrusive-memory/hablare/provider/elevenlabs"
	"github.com/intrusive-memory/hablare/provider/googletts"
	"github.com/intrusive-memory/hablare/provider/openaitts"
	"github.com/intrusive-memory/hablare/provider/system"
	"github.com/intrusive-memory/hablare/record"
	"github.com/intrusive-memory/hablare/screenplay"
	"github.com/intrusive-memory/hablare/speech"
)

var (
	flagProvider string
	flagVoice    string
	flagLanguage string
	flagOut      string
	flagStore    string
	flagVoiceMap string
	flagNarrate  bool
	flagVerbose  bool
)

func newCoordinator() (*hablare.Coordinator, func(), error) {
	registry := hablare.NewRegistry()
	registry.Register(system.Descriptor(flagLanguage), true)
	registry.Register(elevenlabs.Descriptor(), true)
	registry.Register(googletts.Descriptor(), true)
	registry.Register(openaitts.Descriptor(), true)

	// Cloud providers stay disabled until a credential exists.
	for _, id := range []string{elevenlabs.ProviderID, openaitts.ProviderID} {
		if credstore.APIKey(id) != "" {
			registry.SetEnabled(id, true)
		}
	}
	registry.SetEnabled(googletts.ProviderID, true)

	var store hablare.RecordStore
	cleanup := func() {}
	if flagStore != "" {
		s, err := record.Open(flagStore)
		if err != nil {
			return nil, nil, fmt.Errorf("open record store: %w", err)
		}
		store = s
		cleanup = func() { s.Close() }
	}

	return hablare.NewCoordinator(registry, store), cleanup, nil
}

func main() {
	godotenv.Load()

	root := &cobra.Command{
		Use:           "hablare",
		Short:         "Unified text-to-speech across on-device and cloud providers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&flagLanguage, "lang", "", "language filter (BCP-47)")
	root.PersistentFlags().StringVar(&flagStore, "store", "", "path to the audio record database")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newVoicesCmd(), newSayCmd(), newBatchCmd(), newKeyCmd())

	if err := root.Execute(); err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newVoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List voices grouped by provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator, cleanup, err := newCoordinator()
			if err != nil {
				return err
			}
			defer cleanup()

			if flagProvider != "" {
				voices, err := coordinator.Voices(cmd.Context(), flagProvider)
				if err != nil {
					return err
				}
				printVoices(flagProvider, voices)
				return nil
			}

			all := coordinator.AllVoices(cmd.Context())
			for providerID, voices := range all {
				printVoices(providerID, voices)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "restrict to one provider")
	return cmd
}

func printVoices(providerID string, voices []speech.Voice) {
	fmt.Printf("%s (%d voices)\n", providerID, len(voices))
	for _, v := range voices {
		attrs := make([]string, 0, 3)
		if v.Language != "" {
			attrs = append(attrs, v.Language)
		}
		if v.Gender != "" {
			attrs = append(attrs, v.Gender)
		}
		if v.Quality != "" && v.Quality != "default" {
			attrs = append(attrs, string(v.Quality))
		}
		fmt.Printf("  %-40s %s\n", v.ID, strings.Join(attrs, ", "))
	}
}

func newSayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "say [text]",
		Short: "Synthesize one line of text to an audio file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator, cleanup, err := newCoordinator()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := coordinator.Generate(cmd.Context(), hablare.GenerateParams{
				Text:       strings.Join(args, " "),
				ProviderID: flagProvider,
				VoiceID:    flagVoice,
				Language:   flagLanguage,
			})
			if err != nil {
				return err
			}

			log.Info("generated",
				"request", result.RequestID, "provider", result.ProviderID,
				"mime", result.MIMEType, "bytes", len(result.Audio),
				"estimated", result.EstimatedDuration, "cached", result.Cached)

			if flagOut != "" {
				return os.WriteFile(flagOut, result.Audio, 0o644)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagProvider, "provider", "p", system.ProviderID, "provider id")
	cmd.Flags().StringVar(&flagVoice, "voice", "", "voice id")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "output file")
	return cmd
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [document.yaml]",
		Short: "Batch-generate audio for a screenplay document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagVoiceMap == "" {
				return fmt.Errorf("--voices is required")
			}

			doc, err := screenplay.LoadDocument(args[0])
			if err != nil {
				return err
			}
			voiceMap, err := screenplay.LoadVoiceMap(flagVoiceMap)
			if err != nil {
				return err
			}

			coordinator, cleanup, err := newCoordinator()
			if err != nil {
				return err
			}
			defer cleanup()

			gen := screenplay.NewGenerator(coordinator, voiceMap, log.Default())
			gen.IncludeAction = flagNarrate

			results, err := gen.GenerateDocument(cmd.Context(), doc)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Err != nil {
					continue
				}
				if flagOut != "" {
					path := fmt.Sprintf("%s/%s%s", flagOut, r.Element.ID, extensionOf(r.Generation.MIMEType))
					if err := os.WriteFile(path, r.Generation.Audio, 0o644); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagVoiceMap, "voices", "", "YAML character-to-voice map")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&flagNarrate, "narrate", false, "speak action lines with the narrator voice")
	return cmd
}

func extensionOf(mime string) string {
	switch mime {
	case "audio/mpeg":
		return ".mp3"
	case "audio/aiff":
		return ".aiff"
	case "audio/wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	}
	return ".bin"
}

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider credentials in the OS keyring",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [provider] [api-key]",
			Short: "Store a provider credential",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return credstore.SetAPIKey(strings.ToLower(args[0]), args[1])
			},
		},
		&cobra.Command{
			Use:   "delete [provider]",
			Short: "Remove a provider credential",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return credstore.DeleteAPIKey(strings.ToLower(args[0]))
			},
		},
	)
	return cmd
}
