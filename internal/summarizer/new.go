package summarizer

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

type implHTTPSummarizer struct {
	baseURL    string
	skipHeader bool
	client     *http.Client
	logger     logger.Logger
}

// NewHTTP creates a Summarizer that talks to the process_llm service.
// cfg.Timeout bounds each call including reading the body.
func NewHTTP(cfg config.SummarizerConfig, log logger.Logger) Summarizer {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// self-signed certificates on the LLM host
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &implHTTPSummarizer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		skipHeader: cfg.SkipWarningHeader,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: log,
	}
}

type implGeminiSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	baseURL    string
	timeout    time.Duration
	logger     logger.Logger
	model      string
}

// NewGemini creates a Summarizer that rotates through the supplied Gemini API keys.
// A positive timeout bounds each call across all key rotations.
func NewGemini(cfg config.GeminiConfig, timeout time.Duration, log logger.Logger) Summarizer {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implGeminiSummarizer{
		apiKeys: cfg.APIKeys,
		baseURL: cfg.BaseURL,
		timeout: timeout,
		logger:  log,
		model:   model,
	}
}

type implOpenAISummarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// NewOpenAI creates a Summarizer backed by an OpenAI compatible chat endpoint.
// A positive timeout bounds each call.
func NewOpenAI(cfg config.OpenAIConfig, timeout time.Duration, log logger.Logger) Summarizer {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &implOpenAISummarizer{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		timeout: timeout,
		logger:  log,
	}
}

// New picks the backend named by cfg.Backend.
func New(cfg config.SummarizerConfig, log logger.Logger) (Summarizer, error) {
	switch cfg.Backend {
	case config.BackendHTTP, "":
		return NewHTTP(cfg, log), nil
	case config.BackendGemini:
		return NewGemini(cfg.Gemini, cfg.Timeout, log), nil
	case config.BackendOpenAI:
		return NewOpenAI(cfg.OpenAI, cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unsupported summarizer backend %q", cfg.Backend)
	}
}
