package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"notegraph/internal/contextutil"
)

// vectorSize is the dimension of the point vector, the note's canvas position.
const vectorSize = 2

// QdrantIndex implements Index on a single Qdrant collection.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// parseEndpoint derives the gRPC host and port from a Qdrant HTTP URL.
// The gRPC port is the HTTP port plus one (6334 when no port is given).
func parseEndpoint(urlStr string) (host string, port int, useTLS bool, err error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host = parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port = 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			port = httpPort + 1
		}
	}

	return host, port, parsedURL.Scheme == "https", nil
}

// NewQdrantIndex creates a Qdrant client bound to collection.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
func NewQdrantIndex(urlStr, apiKey, collection string) (*QdrantIndex, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	host, port, useTLS, err := parseEndpoint(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantIndex{
		client:     client,
		collection: collection,
	}, nil
}

// Close releases the underlying gRPC connection.
func (s *QdrantIndex) Close() error {
	return s.client.Close()
}

// Ping checks that Qdrant answers a health check.
func (s *QdrantIndex) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a document. The point ID is the note ID.
func (s *QdrantIndex) Upsert(ctx context.Context, doc Document) error {
	logger := contextutil.LoggerFromContext(ctx)

	payload, err := qdrant.TryValueMap(doc.Payload())
	if err != nil {
		return fmt.Errorf("failed to encode document payload: %w", err)
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(float32(doc.PositionX), float32(doc.PositionY)),
			Payload: payload,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	logger.DebugContext(ctx, "upserted document", "collection", s.collection, "id", doc.ID)
	return nil
}

// Delete removes a document by ID.
func (s *QdrantIndex) Delete(ctx context.Context, id string) error {
	logger := contextutil.LoggerFromContext(ctx)

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	logger.DebugContext(ctx, "deleted document", "collection", s.collection, "id", id)
	return nil
}

// Search runs q against the collection.
func (s *QdrantIndex) Search(ctx context.Context, q Query) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	points, err := s.client.Query(ctx, buildQueryPoints(s.collection, q))
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	hits := make([]Hit, 0, len(points))
	for _, point := range points {
		pointID := ""
		if point.Id != nil {
			pointID = point.Id.GetUuid()
		}
		hits = append(hits, Hit{
			Document: DocumentFromPayload(pointID, convertPayloadToMap(point.Payload)),
			Score:    point.Score,
		})
	}

	logger.DebugContext(ctx, "search completed", "collection", s.collection, "results", len(hits))
	return hits, nil
}

func buildFilter(q Query) *qdrant.Filter {
	var filter qdrant.Filter
	if q.Color != "" {
		filter.Must = append(filter.Must, qdrant.NewMatchKeyword("color", q.Color))
	}
	if q.Tag != "" {
		filter.Must = append(filter.Must, qdrant.NewMatchKeyword("tag", q.Tag))
	}
	if q.Text != "" {
		filter.Should = append(filter.Should,
			qdrant.NewMatchText("name", q.Text),
			qdrant.NewMatchText("content", q.Text),
		)
	}
	if len(filter.Must) == 0 && len(filter.Should) == 0 {
		return nil
	}
	return &filter
}

func buildQueryPoints(collection string, q Query) *qdrant.QueryPoints {
	req := &qdrant.QueryPoints{
		CollectionName: collection,
		Filter:         buildFilter(q),
		Limit:          qdrant.PtrOf(uint64(normalizeLimit(q.Limit))),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if q.Near != nil {
		req.Query = qdrant.NewQuery(float32(q.Near.X), float32(q.Near.Y))
	} else {
		req.Query = qdrant.NewQueryOrderBy(&qdrant.OrderBy{
			Key:       DefaultSortingField,
			Direction: qdrant.PtrOf(qdrant.Direction_Desc),
		})
	}
	return req
}

// CollectionExists checks if the collection exists.
func (s *QdrantIndex) CollectionExists(ctx context.Context) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// EnsureCollection creates the collection and one payload index per schema
// field if it does not exist. An existing collection is validated instead.
func (s *QdrantIndex) EnsureCollection(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		return s.validateCollection(ctx)
	}

	logger.InfoContext(ctx, "creating collection", "collection", s.collection)
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	for _, field := range Schema {
		fieldType, ok := fieldIndexType(field)
		if !ok {
			continue
		}
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			Wait:           qdrant.PtrOf(true),
			FieldName:      field.Name,
			FieldType:      qdrant.PtrOf(fieldType),
		})
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", field.Name, err)
		}
	}

	logger.InfoContext(ctx, "collection created", "collection", s.collection, "fields", len(Schema))
	return nil
}

func (s *QdrantIndex) validateCollection(ctx context.Context) error {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.GetConfig()
	if config == nil || config.GetParams() == nil {
		return fmt.Errorf("collection config is invalid")
	}
	params := config.GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}
	if params.GetSize() != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, params.GetSize())
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection validated", "collection", s.collection)
	return nil
}

// fieldIndexType maps a schema field to the payload index backing it.
// The id field is the point ID and needs no payload index.
func fieldIndexType(field Field) (qdrant.FieldType, bool) {
	switch {
	case field.Name == "id":
		return 0, false
	case field.FullText:
		return qdrant.FieldType_FieldTypeText, true
	case field.Facet:
		return qdrant.FieldType_FieldTypeKeyword, true
	case field.Kind == KindFloat:
		return qdrant.FieldType_FieldTypeFloat, true
	case field.Kind == KindInt64:
		return qdrant.FieldType_FieldTypeInteger, true
	}
	return 0, false
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
