package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// MongoDB implements Storage using MongoDB with Atlas Vector Search
type MongoDB struct {
	client     *mongo.Client
	db         *mongo.Database
	blogs      *mongo.Collection
	embeddings *mongo.Collection
}

// blogDoc is the MongoDB document structure for both collections;
// Embedding is only set in blogs_embeddings.
type blogDoc struct {
	URL        string     `bson:"_id"`
	Title      string     `bson:"title"`
	Text       string     `bson:"text"`
	Categories string     `bson:"categories"`
	RSSContent string     `bson:"rss_content,omitempty"`
	Date       *time.Time `bson:"date,omitempty"`
	Embedding  []float32  `bson:"embedding,omitempty"`
	Score      float64    `bson:"score,omitempty"`
}

// NewMongoDB creates a new MongoDB storage
func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)

	return &MongoDB{
		client:     client,
		db:         db,
		blogs:      db.Collection("blogs"),
		embeddings: db.Collection("blogs_embeddings"),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) InsertDocument(ctx context.Context, doc types.Document) error {
	d := blogDoc{
		URL:        doc.URL,
		Title:      doc.Title,
		Text:       doc.Text,
		Categories: doc.Categories,
		RSSContent: doc.RSSContent,
		Date:       doc.Date,
	}
	_, err := m.blogs.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.URL}}, d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to insert blog: %w", err)
	}
	return nil
}

func (m *MongoDB) PendingDocuments(ctx context.Context) ([]types.Document, error) {
	// Anti-join: blogs with no embedding document, or a null embedding field
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "blogs_embeddings"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "emb"},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "emb", Value: bson.D{{Key: "$size", Value: 0}}}},
				bson.D{{Key: "emb.embedding", Value: primitive.Null{}}},
			}},
		}}},
	}

	cursor, err := m.blogs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []types.Document
	for cursor.Next(ctx) {
		var d blogDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, err
		}
		docs = append(docs, types.Document{
			URL:        d.URL,
			Title:      d.Title,
			Text:       d.Text,
			Categories: d.Categories,
			RSSContent: d.RSSContent,
			Date:       d.Date,
		})
	}
	return docs, cursor.Err()
}

func (m *MongoDB) UpsertEmbedding(ctx context.Context, doc types.Document, embedding []float32) error {
	d := blogDoc{
		URL:        doc.URL,
		Title:      doc.Title,
		Text:       doc.Text,
		Categories: doc.Categories,
		RSSContent: doc.RSSContent,
		Date:       doc.Date,
		Embedding:  embedding,
	}
	_, err := m.embeddings.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.URL}}, d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

func (m *MongoDB) SimilaritySearch(ctx context.Context, embedding []float32, opts types.SearchOpts) ([]types.ScoredBlog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	// Atlas Vector Search pipeline. Requires an Atlas Vector Search index
	// named "embedding_index". The $vectorSearch filter grammar only allows
	// equality and range predicates, so the substring pre-filter runs as a
	// $match stage after retrieval instead; candidates are over-fetched to
	// give the filter a wide window to narrow. Matches outside that window
	// are missed, unlike the SQL drivers which filter the whole corpus.
	fetch := limit
	if opts.Filter != "" {
		fetch = limit * 10
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: "embedding_index"},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: embedding},
			{Key: "numCandidates", Value: fetch * 10},
			{Key: "limit", Value: fetch},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	if opts.Filter != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Filter), Options: "i"}
		pipeline = append(pipeline,
			bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "title", Value: re}},
				bson.D{{Key: "text", Value: re}},
				bson.D{{Key: "categories", Value: re}},
			}}}}},
			bson.D{{Key: "$limit", Value: limit}},
		)
	}

	cursor, err := m.embeddings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var results []types.ScoredBlog
	for cursor.Next(ctx) {
		var d blogDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, err
		}
		results = append(results, types.ScoredBlog{
			URL:        d.URL,
			Title:      d.Title,
			Text:       d.Text,
			Categories: d.Categories,
			Date:       d.Date,
			// Atlas reports cosine score as (1+cos)/2; map back to
			// 1 - cosine_distance so all drivers agree.
			Similarity: 2*d.Score - 1,
		})
	}
	return results, cursor.Err()
}

func (m *MongoDB) Stats(ctx context.Context) (*types.Stats, error) {
	total, err := m.embeddings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count blogs: %w", err)
	}
	withEmb, err := m.embeddings.CountDocuments(ctx, bson.D{
		{Key: "embedding", Value: bson.D{
			{Key: "$exists", Value: true},
			{Key: "$ne", Value: primitive.Null{}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return &types.Stats{TotalBlogs: total, BlogsWithEmbeddings: withEmb}, nil
}
