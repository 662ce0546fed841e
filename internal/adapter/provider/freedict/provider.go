package freedict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/heartmarshall/words/internal/config"
	"github.com/heartmarshall/words/internal/domain"
)

const (
	defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Provider fetches dictionary data from the FreeDictionary API.
type Provider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider from DictionaryConfig. An empty base URL
// falls back to the public FreeDictionary endpoint; a zero timeout means the
// client never gives up on its own.
func NewProvider(cfg config.DictionaryConfig, logger *slog.Logger) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// FetchEntries issues exactly one GET for term and returns the entries in
// the order the service sent them. Every error is a *domain.LookupFailure.
func (p *Provider) FetchEntries(ctx context.Context, term string) ([]domain.WordEntry, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(term)

	p.log.DebugContext(ctx, "freedict request", slog.String("word", term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewNetworkFailure(fmt.Errorf("freedict: create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.WarnContext(ctx, "freedict request failed", slog.String("word", term), slog.String("error", err.Error()))
		return nil, domain.NewNetworkFailure(fmt.Errorf("freedict: request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.DebugContext(ctx, "freedict non-success status",
			slog.String("word", term),
			slog.Int("status", resp.StatusCode),
		)
		return nil, domain.NewStatusFailure(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewNetworkFailure(fmt.Errorf("freedict: read body: %w", err))
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		p.log.WarnContext(ctx, "freedict decode failed", slog.String("word", term), slog.String("error", err.Error()))
		return nil, domain.NewParseFailure(fmt.Errorf("freedict: decode json: %w", err))
	}

	result := mapAPIResponse(entries)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", term),
		slog.Int("status", resp.StatusCode),
		slog.Int("entries", len(result)),
	)

	return result, nil
}

// Ping checks that the dictionary host answers HTTP at all. Any status code
// counts as reachable; only transport failures are reported.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.baseURL, nil)
	if err != nil {
		return fmt.Errorf("freedict: create ping request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("freedict: ping timed out: %w", err)
		}
		return fmt.Errorf("freedict: ping: %w", err)
	}
	resp.Body.Close()
	return nil
}

// mapAPIResponse converts the API entries into domain entries one-to-one.
// Entries are never merged: homographs stay separate headword variants.
func mapAPIResponse(entries []apiEntry) []domain.WordEntry {
	result := make([]domain.WordEntry, 0, len(entries))

	for _, entry := range entries {
		we := domain.WordEntry{
			Word:      entry.Word,
			Phonetics: make([]domain.Phonetic, 0, len(entry.Phonetics)),
			Meanings:  make([]domain.Meaning, 0, len(entry.Meanings)),
		}
		for _, ph := range entry.Phonetics {
			we.Phonetics = append(we.Phonetics, domain.Phonetic{
				Text:     ph.Text,
				AudioURL: ph.Audio,
			})
		}
		for _, m := range entry.Meanings {
			we.Meanings = append(we.Meanings, mapMeaning(m))
		}
		result = append(result, we)
	}

	return result
}

func mapMeaning(m apiMeaning) domain.Meaning {
	meaning := domain.Meaning{
		PartOfSpeech: m.PartOfSpeech,
		Definitions:  make([]domain.Definition, 0, len(m.Definitions)),
		Synonyms:     m.Synonyms,
		Antonyms:     m.Antonyms,
	}
	for _, def := range m.Definitions {
		d := domain.Definition{Text: def.Definition}
		// An empty example string means the service has none.
		if def.Example != "" {
			ex := def.Example
			d.Example = &ex
		}
		meaning.Definitions = append(meaning.Definitions, d)
	}
	return meaning
}
