// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "plagia/0.1"). Bibliographic APIs ask for a descriptive client id.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ExtractionBackend selects the primary PDF text extraction strategy.
type ExtractionBackend string

const (
	ExtractLayout    ExtractionBackend = "layout"
	ExtractPdftotext ExtractionBackend = "pdftotext"
)

// ExtractionConfig holds settings for turning PDF bytes into text.
type ExtractionConfig struct {
	// Backend selects the primary strategy. The plain page puller is always
	// the fallback.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// RowTolerance is the Y distance (points) within which glyphs share a row.
	RowTolerance float64 `json:"row_tolerance" yaml:"row_tolerance" mapstructure:"row_tolerance"`

	// WordGapRatio is the horizontal gap, as a fraction of the font size,
	// above which a space is inserted between glyphs.
	WordGapRatio float64 `json:"word_gap_ratio" yaml:"word_gap_ratio" mapstructure:"word_gap_ratio"`

	// ColumnGap is the horizontal gap (points) that separates two columns.
	ColumnGap float64 `json:"column_gap" yaml:"column_gap" mapstructure:"column_gap"`

	// MinColumnRowsPct is the percentage of rows that must share a column
	// boundary before the page is read column by column.
	MinColumnRowsPct int `json:"min_column_rows_pct" yaml:"min_column_rows_pct" mapstructure:"min_column_rows_pct"`

	// PageSeparator is inserted between pages.
	PageSeparator string `json:"page_separator" yaml:"page_separator" mapstructure:"page_separator"`

	// ContainerImage is the image used by the pdftotext backend.
	ContainerImage string `json:"container_image" yaml:"container_image" mapstructure:"container_image"`
}

// CleaningConfig holds the heuristics that isolate the core of a document.
type CleaningConfig struct {
	MinLineLength int  `json:"min_line_length" yaml:"min_line_length" mapstructure:"min_line_length"`
	MaxRepeats    int  `json:"max_repeats" yaml:"max_repeats" mapstructure:"max_repeats"`
	CaseFold      bool `json:"case_fold" yaml:"case_fold" mapstructure:"case_fold"`

	// AbstractMarkers start the capture window. Matched case-insensitively.
	AbstractMarkers []string `json:"abstract_markers" yaml:"abstract_markers" mapstructure:"abstract_markers"`

	// ReferenceMarkers end the capture window. Matched case-insensitively.
	ReferenceMarkers []string `json:"reference_markers" yaml:"reference_markers" mapstructure:"reference_markers"`

	// PagePattern matches page-number lines. Matched case-insensitively.
	PagePattern string `json:"page_pattern" yaml:"page_pattern" mapstructure:"page_pattern"`

	// DOILineMaxLength drops lines mentioning a DOI shorter than this.
	DOILineMaxLength int `json:"doi_line_max_length" yaml:"doi_line_max_length" mapstructure:"doi_line_max_length"`

	// MinStartLineLength and FallbackWindowLines define the window used
	// when no abstract marker is present. A negative FallbackWindowLines
	// disables the window, so a document without a marker cleans to "".
	MinStartLineLength  int `json:"min_start_line_length" yaml:"min_start_line_length" mapstructure:"min_start_line_length"`
	FallbackWindowLines int `json:"fallback_window_lines" yaml:"fallback_window_lines" mapstructure:"fallback_window_lines"`

	// MaxChars bounds the normalized core, cut at a word boundary. Zero
	// leaves it unbounded.
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	StripURLs    bool `json:"strip_urls" yaml:"strip_urls" mapstructure:"strip_urls"`
	StripSymbols bool `json:"strip_symbols" yaml:"strip_symbols" mapstructure:"strip_symbols"`

	// NormalizeUnicode composes text to NFC before cleaning.
	NormalizeUnicode bool `json:"normalize_unicode" yaml:"normalize_unicode" mapstructure:"normalize_unicode"`

	// CollapseSpace folds runs of whitespace into one space.
	CollapseSpace bool `json:"collapse_space" yaml:"collapse_space" mapstructure:"collapse_space"`

	// KeepMarkerLines matches markers anywhere in a line and keeps the
	// abstract and references lines whole instead of treating them as
	// headings.
	KeepMarkerLines bool `json:"keep_marker_lines" yaml:"keep_marker_lines" mapstructure:"keep_marker_lines"`

	// CountUntrimmedRepeats counts repeated lines before trimming, so
	// copies that differ in surrounding whitespace are not merged.
	CountUntrimmedRepeats bool `json:"count_untrimmed_repeats" yaml:"count_untrimmed_repeats" mapstructure:"count_untrimmed_repeats"`
}

// ValidationConfig bounds the cleaned text before it is used downstream.
// A zero maximum disables that bound.
type ValidationConfig struct {
	MinChars int `json:"min_chars" yaml:"min_chars" mapstructure:"min_chars"`
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
	MinWords int `json:"min_words" yaml:"min_words" mapstructure:"min_words"`
	MaxWords int `json:"max_words" yaml:"max_words" mapstructure:"max_words"`
}

// QueryConfig controls how search terms are derived from the core text.
type QueryConfig struct {
	// PrefixChars is the window used by the longest-token and bigram strategies.
	PrefixChars int `json:"prefix_chars" yaml:"prefix_chars" mapstructure:"prefix_chars"`

	LongestMinLength  int `json:"longest_min_length" yaml:"longest_min_length" mapstructure:"longest_min_length"`
	LongestMax        int `json:"longest_max" yaml:"longest_max" mapstructure:"longest_max"`
	BigramMinLength   int `json:"bigram_min_length" yaml:"bigram_min_length" mapstructure:"bigram_min_length"`
	BigramMax         int `json:"bigram_max" yaml:"bigram_max" mapstructure:"bigram_max"`
	FrequentMinLength int `json:"frequent_min_length" yaml:"frequent_min_length" mapstructure:"frequent_min_length"`
	FrequentMax       int `json:"frequent_max" yaml:"frequent_max" mapstructure:"frequent_max"`

	// LeadingMax caps the words taken by the leading strategy.
	LeadingMax int `json:"leading_max" yaml:"leading_max" mapstructure:"leading_max"`

	// Strategies lists query strategies in retry order: longest, bigrams,
	// frequent or leading. Empty means longest, bigrams, frequent.
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty" mapstructure:"strategies"`

	// Joiner separates terms in the final query string.
	Joiner string `json:"joiner" yaml:"joiner" mapstructure:"joiner"`

	// ExtraStopwords extend the built-in general stopword list.
	ExtraStopwords []string `json:"extra_stopwords,omitempty" yaml:"extra_stopwords,omitempty" mapstructure:"extra_stopwords"`

	// DomainStopwords replace the built-in academic stopwords used by the
	// frequency strategy when non-empty.
	DomainStopwords []string `json:"domain_stopwords,omitempty" yaml:"domain_stopwords,omitempty" mapstructure:"domain_stopwords"`
}

// SourceName identifies a bibliographic search backend.
type SourceName string

const (
	SourceCrossRef        SourceName = "crossref"
	SourceSemanticScholar SourceName = "semantic_scholar"
	SourceOpenAlex        SourceName = "openalex"
	SourceArxiv           SourceName = "arxiv"
)

// RetrievalConfig holds settings for the cascading reference search.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Sources lists backends in priority order.
	Sources []SourceName `json:"sources" yaml:"sources" mapstructure:"sources"`

	// MaxResults caps the candidates requested from a source.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// PerCallTimeout bounds one backend call, retries included.
	PerCallTimeout time.Duration `json:"per_call_timeout" yaml:"per_call_timeout" mapstructure:"per_call_timeout"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables
	// retries and a negative value uses the built-in default of two.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// SkipSourceOnFailure abandons a source's remaining strategies after a
	// transport failure, timeout, 5xx or 429. On by default; when off,
	// every failure counts as empty and the next strategy is tried.
	SkipSourceOnFailure bool `json:"skip_source_on_failure" yaml:"skip_source_on_failure" mapstructure:"skip_source_on_failure"`

	CrossRefMailto        string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty" mapstructure:"crossref_mailto"`
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`
	OpenAlexEmail         string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
}

// SimilarityAlgorithm selects the pairwise similarity function.
type SimilarityAlgorithm string

const (
	AlgorithmSequence  SimilarityAlgorithm = "sequence"
	AlgorithmTokenSort SimilarityAlgorithm = "token_sort"
)

// ScoringConfig holds settings for similarity scoring and ranking.
type ScoringConfig struct {
	Algorithm SimilarityAlgorithm `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`

	// MaxCoreChars truncates the core text before comparison.
	MaxCoreChars int `json:"max_core_chars" yaml:"max_core_chars" mapstructure:"max_core_chars"`

	// MinSimilarity drops candidates below this ratio.
	MinSimilarity float64 `json:"min_similarity" yaml:"min_similarity" mapstructure:"min_similarity"`

	// HighSimilarity is the threshold counted in the summary statistics.
	HighSimilarity float64 `json:"high_similarity" yaml:"high_similarity" mapstructure:"high_similarity"`

	// AutoJunk enables the popular-element heuristic of the matcher.
	AutoJunk bool `json:"auto_junk" yaml:"auto_junk" mapstructure:"auto_junk"`
}

// HashAlgorithm selects the digest used for verification codes.
type HashAlgorithm string

const (
	HashSHA256 HashAlgorithm = "sha256"
	HashMD5    HashAlgorithm = "md5"
)

// VerificationConfig controls verification code derivation.
type VerificationConfig struct {
	Algorithm HashAlgorithm `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`

	// Length is the number of hex characters kept.
	Length int `json:"length" yaml:"length" mapstructure:"length"`

	// PrefixChars bounds the hashed prefix of the core text. Zero hashes all of it.
	PrefixChars int `json:"prefix_chars" yaml:"prefix_chars" mapstructure:"prefix_chars"`

	// TimeSalted mixes the generation time into the digest.
	TimeSalted bool `json:"time_salted" yaml:"time_salted" mapstructure:"time_salted"`
}

// RegistrationBackend selects where verification records are stored.
type RegistrationBackend string

const (
	RegistrationNone   RegistrationBackend = "none"
	RegistrationHTTP   RegistrationBackend = "http"
	RegistrationSQLite RegistrationBackend = "sqlite"
)

// RegistrationConfig holds settings for the registration store.
type RegistrationConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Backend RegistrationBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// URL is the spreadsheet-backed endpoint for the http backend.
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`

	SuccessSentinel string `json:"success_sentinel" yaml:"success_sentinel" mapstructure:"success_sentinel"`
	ValidSentinel   string `json:"valid_sentinel" yaml:"valid_sentinel" mapstructure:"valid_sentinel"`

	// DBPath is the database file for the sqlite backend.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`

	// MaxFieldLength caps name and email before storage.
	MaxFieldLength int `json:"max_field_length" yaml:"max_field_length" mapstructure:"max_field_length"`
}

// CacheBackend selects the content-addressed cache implementation.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

// CacheConfig holds settings for the content-addressed cache.
type CacheConfig struct {
	Backend    CacheBackend  `json:"backend" yaml:"backend" mapstructure:"backend"`
	MaxEntries int           `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`
	TTL        time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	RedisURL   string        `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url"`
	Prefix     string        `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// QuotaConfig holds per-session usage limits for the HTTP surface.
type QuotaConfig struct {
	// Limit is the number of analyses per session. Zero means unlimited.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// ConsumeOnEmpty decides whether an analysis that found no candidate
	// references still counts against the quota.
	ConsumeOnEmpty bool `json:"consume_on_empty" yaml:"consume_on_empty" mapstructure:"consume_on_empty"`

	// Backend is "memory" or "redis"; redis reuses Cache.RedisURL.
	Backend CacheBackend  `json:"backend" yaml:"backend" mapstructure:"backend"`
	TTL     time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// ReportConfig controls report content.
type ReportConfig struct {
	// TopN is the number of references listed in the report.
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr           string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes int64         `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	ShutdownGrace  time.Duration `json:"shutdown_grace" yaml:"shutdown_grace" mapstructure:"shutdown_grace"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations for the pipeline.
type Config struct {
	Extraction   ExtractionConfig   `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Cleaning     CleaningConfig     `json:"cleaning" yaml:"cleaning" mapstructure:"cleaning"`
	Validation   ValidationConfig   `json:"validation" yaml:"validation" mapstructure:"validation"`
	Query        QueryConfig        `json:"query" yaml:"query" mapstructure:"query"`
	Retrieval    RetrievalConfig    `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Scoring      ScoringConfig      `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Verification VerificationConfig `json:"verification" yaml:"verification" mapstructure:"verification"`
	Registration RegistrationConfig `json:"registration" yaml:"registration" mapstructure:"registration"`
	Cache        CacheConfig        `json:"cache" yaml:"cache" mapstructure:"cache"`
	Quota        QuotaConfig        `json:"quota" yaml:"quota" mapstructure:"quota"`
	Report       ReportConfig       `json:"report" yaml:"report" mapstructure:"report"`
	Server       ServerConfig       `json:"server" yaml:"server" mapstructure:"server"`
	Log          LogConfig          `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultUserAgent identifies the engine to bibliographic APIs.
const DefaultUserAgent = "plagia/0.1 (+https://github.com/pdiddy/plagia)"

// DefaultConfig returns the configuration used when no preset or file
// overrides it.
func DefaultConfig() Config {
	return Config{
		Extraction: ExtractionConfig{
			Backend:          ExtractLayout,
			RowTolerance:     3.0,
			WordGapRatio:     0.3,
			ColumnGap:        30.0,
			MinColumnRowsPct: 25,
			PageSeparator:    "\n",
			ContainerImage:   "pdftotext:latest",
		},
		Cleaning: CleaningConfig{
			MinLineLength: 5,
			MaxRepeats:    3,
			AbstractMarkers: []string{
				`\bResumo\b`, `\bAbstract\b`, `\bSummary\b`, `\bResumen\b`,
			},
			ReferenceMarkers: []string{
				`\bRefer[eê]ncias\b`, `\bBibliografia\b`, `\bReferences\b`, `\bBibliography\b`,
			},
			PagePattern:         `^(p[áa]gina|page|p[áa]g\.?)?\s*\d+(\s*(de|of|/)\s*\d+)?$`,
			DOILineMaxLength:    50,
			MinStartLineLength:  40,
			FallbackWindowLines: 60,
			MaxChars:            20000,
			StripURLs:           true,
			StripSymbols:        true,
			NormalizeUnicode:    true,
			CollapseSpace:       true,
		},
		Validation: ValidationConfig{
			MinChars: 300,
			MaxChars: 200000,
			MinWords: 50,
			MaxWords: 40000,
		},
		Query: QueryConfig{
			PrefixChars:       1000,
			LongestMinLength:  6,
			LongestMax:        15,
			BigramMinLength:   4,
			BigramMax:         10,
			FrequentMinLength: 5,
			FrequentMax:       12,
			LeadingMax:        10,
			Joiner:            " ",
		},
		Retrieval: RetrievalConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: DefaultUserAgent,
			},
			Sources:             []SourceName{SourceCrossRef, SourceSemanticScholar},
			MaxResults:          15,
			PerCallTimeout:      20 * time.Second,
			MaxRetries:          2,
			SkipSourceOnFailure: true,
		},
		Scoring: ScoringConfig{
			Algorithm:      AlgorithmSequence,
			MaxCoreChars:   5000,
			MinSimilarity:  0.05,
			HighSimilarity: 0.5,
			AutoJunk:       true,
		},
		Verification: VerificationConfig{
			Algorithm:   HashSHA256,
			Length:      10,
			PrefixChars: 5000,
		},
		Registration: RegistrationConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: DefaultUserAgent,
			},
			Backend:         RegistrationNone,
			SuccessSentinel: "Sucesso",
			ValidSentinel:   "Valido",
			DBPath:          "plagia.db",
			MaxFieldLength:  100,
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			MaxEntries: 256,
			TTL:        time.Hour,
			Prefix:     "plagia:",
		},
		Quota: QuotaConfig{
			Limit:          4,
			ConsumeOnEmpty: true,
			Backend:        CacheMemory,
			TTL:            24 * time.Hour,
		},
		Report: ReportConfig{TopN: 5},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 20 << 20,
			ShutdownGrace:  10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Preset names accepted by PresetConfig.
const (
	PresetDefault = "default"
	PresetLegacy  = "legacy"
	PresetFuzzy   = "fuzzy"
)

// PresetConfig returns a named configuration preset. The legacy preset
// replays the first deployed behavior: the abstract and references lines
// are kept verbatim with no symbol stripping or fallback window, CrossRef
// is queried with the first ten words, and the md5 code covers the whole
// core. Given the same extracted text it yields the same codes. The fuzzy
// preset swaps in token-sort similarity.
func PresetConfig(name string) (Config, error) {
	cfg := DefaultConfig()
	switch name {
	case "", PresetDefault:
		return cfg, nil
	case PresetLegacy:
		cfg.Cleaning = CleaningConfig{
			MinLineLength:         5,
			MaxRepeats:            3,
			AbstractMarkers:       []string{`\bResumo\b`},
			ReferenceMarkers:      []string{`\bRefer[eê]ncias\b|\bBibliografia\b`},
			PagePattern:           `^Página?\s*\d+$`,
			DOILineMaxLength:      50,
			FallbackWindowLines:   -1,
			KeepMarkerLines:       true,
			CountUntrimmedRepeats: true,
		}
		cfg.Retrieval.Sources = []SourceName{SourceCrossRef}
		cfg.Retrieval.MaxResults = 10
		cfg.Retrieval.PerCallTimeout = 15 * time.Second
		cfg.Query.Strategies = []string{"leading"}
		cfg.Query.LeadingMax = 10
		cfg.Validation = ValidationConfig{MinChars: 1, MinWords: 1}
		cfg.Scoring.MaxCoreChars = 0
		cfg.Scoring.MinSimilarity = 0
		cfg.Verification.Algorithm = HashMD5
		cfg.Verification.PrefixChars = 0
		cfg.Registration.Backend = RegistrationHTTP
		return cfg, nil
	case PresetFuzzy:
		cfg.Scoring.Algorithm = AlgorithmTokenSort
		cfg.Scoring.MinSimilarity = 0.1
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("unknown preset %q: use default, legacy, or fuzzy", name)
	}
}
