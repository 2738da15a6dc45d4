package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

const milvusMaxText = 8192

type milvusBackend struct {
	mc       client.Client
	coll     string
	dim      int
	embedder Embedder
	logger   logger.Logger
}

// NewMilvus connects to Milvus and creates, indexes and loads the collection
// on first use.
func NewMilvus(ctx context.Context, cfg config.MilvusConfig, dim int, embedder Embedder, log logger.Logger) (Backend, error) {
	mc, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	b := &milvusBackend{mc: mc, coll: cfg.Collection, dim: dim, embedder: embedder, logger: log}
	if err := b.ensureCollection(ctx); err != nil {
		mc.Close()
		return nil, err
	}

	log.Info(ctx, "Connected to Milvus at %s (collection %s)", cfg.Addr, cfg.Collection)
	return b, nil
}

func (b *milvusBackend) ensureCollection(ctx context.Context) error {
	has, err := b.mc.HasCollection(ctx, b.coll)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}

	if !has {
		schema := entity.NewSchema().WithName(b.coll).WithDescription("meeting report retrieval records")
		schema.WithField(entity.NewField().WithName("id").WithIsPrimaryKey(true).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64))
		schema.WithField(entity.NewField().WithName("namespace").WithDataType(entity.FieldTypeVarChar).WithMaxLength(128))
		schema.WithField(entity.NewField().WithName(FieldLink).WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048))
		schema.WithField(entity.NewField().WithName(FieldTitle).WithDataType(entity.FieldTypeVarChar).WithMaxLength(1024))
		schema.WithField(entity.NewField().WithName(FieldText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(milvusMaxText))
		schema.WithField(entity.NewField().WithName("vector").WithDataType(entity.FieldTypeFloatVector).WithDim(int64(b.dim)))

		if err := b.mc.CreateCollection(ctx, schema, int32(2)); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}

		idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
		if err != nil {
			return fmt.Errorf("build index params: %w", err)
		}
		if err := b.mc.CreateIndex(ctx, b.coll, "vector", idx, false, client.WithIndexName("idx_vector")); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	if err := b.mc.LoadCollection(ctx, b.coll, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

func (b *milvusBackend) Search(ctx context.Context, namespace, query string, topK int) ([]Match, error) {
	vec, err := embedOne(ctx, b.embedder, query)
	if err != nil {
		return nil, err
	}

	sp, err := entity.NewIndexHNSWSearchParam(74)
	if err != nil {
		return nil, fmt.Errorf("build search params: %w", err)
	}

	res, err := b.mc.Search(ctx, b.coll, []string{}, namespaceFilter(namespace),
		[]string{FieldLink, FieldTitle, FieldText},
		[]entity.Vector{entity.FloatVector(vec)}, "vector", entity.COSINE, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search namespace %s: %w", namespace, err)
	}

	var matches []Match
	for _, r := range res {
		cols := map[string]*entity.ColumnVarChar{}
		for _, c := range r.Fields {
			if vc, ok := c.(*entity.ColumnVarChar); ok {
				cols[c.Name()] = vc
			}
		}

		for i := 0; i < r.ResultCount; i++ {
			fields := map[string]*string{}
			for name, c := range cols {
				data := c.Data()
				if i < len(data) {
					v := data[i]
					fields[name] = &v
				}
			}
			m := Match{Fields: presentFields(fields)}
			if i < len(r.Scores) {
				m.Score = float64(r.Scores[i])
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (b *milvusBackend) Upsert(ctx context.Context, namespace string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	inputs := make([]string, len(records))
	for i, r := range records {
		inputs[i] = r.embeddingInput()
	}
	vecs, err := b.embedder.Embed(ctx, inputs)
	if err != nil {
		return err
	}

	ids := make([]string, len(records))
	namespaces := make([]string, len(records))
	links := make([]string, len(records))
	titles := make([]string, len(records))
	texts := make([]string, len(records))
	for i, r := range records {
		ids[i] = recordID(namespace, r)
		namespaces[i] = namespace
		links[i] = r.Link
		titles[i] = r.Title
		texts[i] = truncate(r.Text, milvusMaxText)
	}

	if _, err := b.mc.Upsert(ctx, b.coll, "",
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnVarChar("namespace", namespaces),
		entity.NewColumnVarChar(FieldLink, links),
		entity.NewColumnVarChar(FieldTitle, titles),
		entity.NewColumnVarChar(FieldText, texts),
		entity.NewColumnFloatVector("vector", b.dim, vecs),
	); err != nil {
		return fmt.Errorf("upsert into %s: %w", namespace, err)
	}

	if err := b.mc.Flush(ctx, b.coll, false); err != nil {
		return fmt.Errorf("flush collection: %w", err)
	}

	b.logger.Info(ctx, "Upserted %d records into namespace %s", len(records), namespace)
	return nil
}

func (b *milvusBackend) Close() error {
	return b.mc.Close()
}

func namespaceFilter(namespace string) string {
	escaped := strings.ReplaceAll(namespace, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return fmt.Sprintf(`namespace == "%s"`, escaped)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
