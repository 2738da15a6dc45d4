package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Merge       MergeConfig       `yaml:"merge"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Store       StoreConfig       `yaml:"store"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr" env:"SERVER_ADDR"`
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`
	// MaxUploadMB caps one multipart upload.
	MaxUploadMB int64 `yaml:"max_upload_mb"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	// Sessions holds one directory per session with its uploaded sources.
	Sessions string `yaml:"sessions"`
	// Dropbox is watched for sources copied in outside the HTTP intake.
	Dropbox string `yaml:"dropbox"`
	Output  string `yaml:"output"`
	Temp    string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type MergeConfig struct {
	Policy string `yaml:"policy"`
}

type SummarizerConfig struct {
	Backend            string        `yaml:"backend"`
	BaseURL            string        `yaml:"base_url" env:"LLM_URL"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	SkipWarningHeader  bool          `yaml:"skip_warning_header"`
	Gemini             GeminiConfig  `yaml:"gemini"`
	OpenAI             OpenAIConfig  `yaml:"openai"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	BaseURL string   `yaml:"base_url" env:"GEMINI_BASE_URL"`
	APIKeys []string `yaml:"api_keys" env:"GEMINI_API_KEYS" env-separator:","`
}

type OpenAIConfig struct {
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
	BaseURL        string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	APIKey         string `yaml:"api_key" env:"OPENAI_API_KEY"`
}

type RetrievalConfig struct {
	Backend     string        `yaml:"backend"`
	Timeout     time.Duration `yaml:"timeout"`
	DatabaseURL string        `yaml:"database_url" env:"DATABASE_URL"`
	// Dim is the embedding width shared by both vector backends.
	Dim        int               `yaml:"dim"`
	Milvus     MilvusConfig      `yaml:"milvus"`
	Embedding  OpenAIConfig      `yaml:"embedding"`
	Namespaces []NamespaceConfig `yaml:"namespaces"`
}

type MilvusConfig struct {
	Addr       string `yaml:"addr" env:"MILVUS_ADDR"`
	Username   string `yaml:"username" env:"MILVUS_USERNAME"`
	Password   string `yaml:"password" env:"MILVUS_PASSWORD"`
	Collection string `yaml:"collection"`
}

// NamespaceConfig describes one ranked-search partition queried per run.
type NamespaceConfig struct {
	Name   string   `yaml:"name"`
	TopK   int      `yaml:"top_k"`
	Fields []string `yaml:"fields"`
	// Role selects the compose payload slot: papers, news or wiki.
	Role string `yaml:"role"`
}

type StoreConfig struct {
	Path string `yaml:"path" env:"REPORT_DB_PATH"`
}

const (
	PolicyFailFast   = "fail_fast"
	PolicyBestEffort = "best_effort"

	RoleWiki   = "wiki"
	RolePapers = "papers"
	RoleNews   = "news"

	BackendHTTP     = "http"
	BackendGemini   = "gemini"
	BackendOpenAI   = "openai"
	BackendPgvector = "pgvector"
	BackendMilvus   = "milvus"
	BackendNone     = "none"
)

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Paths.Sessions == "" {
		return fmt.Errorf("paths.sessions is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8001"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	switch c.Merge.Policy {
	case "":
		c.Merge.Policy = PolicyFailFast
	case PolicyFailFast, PolicyBestEffort:
	default:
		return fmt.Errorf("merge.policy %q is not one of %s, %s", c.Merge.Policy, PolicyFailFast, PolicyBestEffort)
	}

	if err := c.Summarizer.validate(); err != nil {
		return err
	}
	if err := c.Retrieval.validate(); err != nil {
		return err
	}

	return nil
}

func (s *SummarizerConfig) validate() error {
	if s.Backend == "" {
		s.Backend = BackendHTTP
	}
	if s.Timeout == 0 {
		s.Timeout = 5 * time.Minute
	}

	switch s.Backend {
	case BackendHTTP:
		if s.BaseURL == "" {
			return fmt.Errorf("summarizer.base_url is required for the http backend")
		}
	case BackendGemini:
		if len(s.Gemini.APIKeys) == 0 {
			return fmt.Errorf("summarizer.gemini.api_keys is required for the gemini backend")
		}
		if s.Gemini.Model == "" {
			s.Gemini.Model = "gemini-2.5-flash"
		}
	case BackendOpenAI:
		if s.OpenAI.APIKey == "" {
			return fmt.Errorf("summarizer.openai.api_key is required for the openai backend")
		}
		if s.OpenAI.Model == "" {
			s.OpenAI.Model = "gpt-4o-mini"
		}
	default:
		return fmt.Errorf("summarizer.backend %q is not supported", s.Backend)
	}
	return nil
}

func (r *RetrievalConfig) validate() error {
	if r.Backend == "" {
		r.Backend = BackendNone
	}
	if r.Timeout == 0 {
		r.Timeout = 15 * time.Second
	}
	if len(r.Namespaces) == 0 {
		r.Namespaces = DefaultNamespaces()
	}

	seen := make(map[string]bool, len(r.Namespaces))
	for i := range r.Namespaces {
		ns := &r.Namespaces[i]
		if ns.Name == "" {
			return fmt.Errorf("retrieval.namespaces[%d].name is required", i)
		}
		if seen[ns.Name] {
			return fmt.Errorf("retrieval.namespaces[%d]: duplicate namespace %q", i, ns.Name)
		}
		seen[ns.Name] = true
		if ns.TopK <= 0 {
			ns.TopK = 3
		}
		if len(ns.Fields) == 0 {
			ns.Fields = []string{"link", "title"}
		}
		for _, f := range ns.Fields {
			switch f {
			case "link", "title", "text":
			default:
				return fmt.Errorf("retrieval.namespaces[%d].fields: unknown field %q", i, f)
			}
		}
		switch ns.Role {
		case RolePapers, RoleNews, RoleWiki:
		default:
			return fmt.Errorf("retrieval.namespaces[%d].role %q is not one of papers, news, wiki", i, ns.Role)
		}
	}

	switch r.Backend {
	case BackendNone:
	case BackendPgvector:
		if r.DatabaseURL == "" {
			return fmt.Errorf("retrieval.database_url is required for the pgvector backend")
		}
	case BackendMilvus:
		if r.Milvus.Addr == "" {
			r.Milvus.Addr = "localhost:19530"
		}
		if r.Milvus.Collection == "" {
			r.Milvus.Collection = "rag_records"
		}
	default:
		return fmt.Errorf("retrieval.backend %q is not supported", r.Backend)
	}

	if r.Backend != BackendNone {
		if r.Embedding.APIKey == "" {
			return fmt.Errorf("retrieval.embedding.api_key is required for the %s backend", r.Backend)
		}
		if r.Embedding.EmbeddingModel == "" {
			r.Embedding.EmbeddingModel = "text-embedding-3-small"
		}
		if r.Dim == 0 {
			r.Dim = 1536
		}
	}
	return nil
}

// DefaultNamespaces mirrors the lookups made for every meeting: three papers,
// five news articles and one encyclopedic snippet.
func DefaultNamespaces() []NamespaceConfig {
	return []NamespaceConfig{
		{Name: "arXiv", TopK: 3, Fields: []string{"link", "title", "text"}, Role: RolePapers},
		{Name: "news", TopK: 5, Fields: []string{"link", "title"}, Role: RoleNews},
		{Name: "wiki", TopK: 1, Fields: []string{"text"}, Role: RoleWiki},
	}
}
