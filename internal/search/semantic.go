package search

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/pkg/provider/embeddings"
)

// SemanticIndex stores one embedding per listing in a pgvector HNSW table and
// answers nearest-neighbour queries by cosine distance. It is an optional
// widening pass for queries the keyword pass cannot satisfy; it requires the
// postgres backend and a configured embeddings provider.
//
// All methods are safe for concurrent use.
type SemanticIndex struct {
	pool     *pgxpool.Pool
	embedder embeddings.Provider
}

// NewSemanticIndex creates an index over pool, typically the same pool as the
// job PostgresStore. Migrate must be called before first use.
func NewSemanticIndex(pool *pgxpool.Pool, embedder embeddings.Provider) *SemanticIndex {
	return &SemanticIndex{pool: pool, embedder: embedder}
}

// ddlJobEmbeddings returns the embeddings DDL for the provider's vector
// dimensionality. Idempotent.
func ddlJobEmbeddings(dims int) string {
	return fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS job_embeddings (
    job_id     TEXT        PRIMARY KEY,
    embedding  vector(%d),
    model      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_job_embeddings_hnsw
    ON job_embeddings USING hnsw (embedding vector_cosine_ops);
`, dims)
}

// Migrate installs the pgvector extension and creates the embeddings table.
func (s *SemanticIndex) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, ddlJobEmbeddings(s.embedder.Dimensions())); err != nil {
		return fmt.Errorf("search: migrate embeddings schema: %w", err)
	}
	return nil
}

// IndexOffer embeds the listing's search projection and upserts it. A
// re-indexed listing is completely replaced.
func (s *SemanticIndex) IndexOffer(ctx context.Context, o job.Offer) error {
	vec, err := s.embedder.Embed(ctx, o.SearchText())
	if err != nil {
		return fmt.Errorf("search: embed listing %q: %w", o.ID, err)
	}

	const q = `
		INSERT INTO job_embeddings (job_id, embedding, model)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO UPDATE SET
		    embedding = EXCLUDED.embedding,
		    model     = EXCLUDED.model`
	_, err = s.pool.Exec(ctx, q, o.ID, pgvector.NewVector(vec), s.embedder.ModelID())
	if err != nil {
		return fmt.Errorf("search: index listing %q: %w", o.ID, err)
	}
	return nil
}

// IndexAll embeds every listing in one batched provider call and upserts the
// results. Used at startup to backfill the index.
func (s *SemanticIndex) IndexAll(ctx context.Context, offers []job.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	texts := make([]string, len(offers))
	for i, o := range offers {
		texts[i] = o.SearchText()
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("search: embed %d listings: %w", len(offers), err)
	}

	const q = `
		INSERT INTO job_embeddings (job_id, embedding, model)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO UPDATE SET
		    embedding = EXCLUDED.embedding,
		    model     = EXCLUDED.model`
	for i, o := range offers {
		if _, err := s.pool.Exec(ctx, q, o.ID, pgvector.NewVector(vecs[i]), s.embedder.ModelID()); err != nil {
			return fmt.Errorf("search: index listing %q: %w", o.ID, err)
		}
	}
	return nil
}

// Remove drops a listing from the index. Missing IDs are not an error, so the
// expiry janitor can call it unconditionally after pruning.
func (s *SemanticIndex) Remove(ctx context.Context, jobID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM job_embeddings WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("search: remove listing %q from index: %w", jobID, err)
	}
	return nil
}

// Search embeds the query and returns the IDs of the topK nearest listings,
// most similar first.
func (s *SemanticIndex) Search(ctx context.Context, query string, topK int) ([]string, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	const q = `
		SELECT job_id
		FROM   job_embeddings
		ORDER  BY embedding <=> $1
		LIMIT  $2`
	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("search: semantic query: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("search: collect semantic results: %w", err)
	}
	return ids, nil
}
