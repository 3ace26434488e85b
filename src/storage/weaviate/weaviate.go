// Package weaviate stores document chunk embeddings in a Weaviate class and
// serves nearest-neighbor queries over them.
package weaviate

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const DefaultClassName = "DocumentAdministratif"

// SDK encapsulates all Weaviate operations for the chunk store.
type SDK struct {
	client *weaviate.Client
}

// NewSDK creates a new instance of SDK
func NewSDK(client *weaviate.Client) *SDK {
	return &SDK{
		client: client,
	}
}

// EnsureClass creates the chunk class schema when it does not exist yet.
// Vectors are provided by the pipeline, so the class has no vectorizer.
func (w *SDK) EnsureClass(ctx context.Context, className string) error {
	exists, err := w.classExists(ctx, className)
	if err != nil {
		return fmt.Errorf("failed to check if class exists: %v", err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class: className,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "mediaType", DataType: []string{"text"}},
		},
		Vectorizer: "none",
	}

	if err := w.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("failed to create Weaviate class: %v", err)
	}

	return nil
}

// classExists checks if a class exists in the schema
func (w *SDK) classExists(ctx context.Context, className string) (bool, error) {
	schema, err := w.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %v", err)
	}

	for _, class := range schema.Classes {
		if class.Class == className {
			return true, nil
		}
	}

	return false, nil
}

// VectorObject represents a single chunk with its vector and properties.
type VectorObject struct {
	// ChunkID is the caller's stable identifier; the object ID stored in
	// Weaviate is derived from it, so re-adding the same chunk overwrites
	// instead of duplicating.
	ChunkID    string
	Vector     []float32
	Properties map[string]interface{}
}

// BatchAddVectors adds multiple vector objects to a class in a single operation
func (w *SDK) BatchAddVectors(ctx context.Context, className string, objects []VectorObject) error {
	objs := make([]*models.Object, len(objects))
	for i, obj := range objects {
		objs[i] = &models.Object{
			ID:         strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(obj.ChunkID)).String()),
			Class:      className,
			Properties: obj.Properties,
			Vector:     obj.Vector,
		}
	}

	batcher := w.client.Batch().ObjectsBatcher()
	resp, err := batcher.WithObjects(objs...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to batch add vectors: %v", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch operation returned no results")
	}

	return nil
}

// QueryResult represents a single result from vector similarity search
type QueryResult struct {
	ID         string
	Distance   float64
	Properties map[string]interface{}
}

// QueryVectors performs vector similarity search in a class, returning at
// most limit results ordered by ascending distance.
func (w *SDK) QueryVectors(ctx context.Context, className string, vector []float32, limit int) ([]QueryResult, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "chunkIndex"},
		{Name: "mediaType"},
		{Name: "_additional { id distance }"},
	}

	nearVector := w.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	if limit <= 0 {
		limit = 3
	}

	result, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %v", err)
	}

	var queryResults []QueryResult
	if data, ok := result.Data["Get"].(map[string]interface{}); ok {
		if objects, ok := data[className].([]interface{}); ok {
			for _, obj := range objects {
				objMap, ok := obj.(map[string]interface{})
				if !ok {
					continue
				}
				additional, ok := objMap["_additional"].(map[string]interface{})
				if !ok {
					continue
				}

				properties := make(map[string]interface{})
				for k, v := range objMap {
					if k != "_additional" {
						properties[k] = v
					}
				}

				queryResult := QueryResult{
					Properties: properties,
				}
				if id, ok := additional["id"].(string); ok {
					queryResult.ID = id
				}
				if distance, ok := additional["distance"].(float64); ok {
					queryResult.Distance = distance
				}

				queryResults = append(queryResults, queryResult)
			}
		}
	}

	return queryResults, nil
}

// CountObjects returns the number of objects stored in a class.
func (w *SDK) CountObjects(ctx context.Context, className string) (int64, error) {
	result, err := w.client.GraphQL().Aggregate().
		WithClassName(className).
		WithFields(graphql.Field{
			Name:   "meta",
			Fields: []graphql.Field{{Name: "count"}},
		}).
		Do(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to aggregate class %s: %v", className, err)
	}

	if data, ok := result.Data["Aggregate"].(map[string]interface{}); ok {
		if objects, ok := data[className].([]interface{}); ok && len(objects) > 0 {
			if objMap, ok := objects[0].(map[string]interface{}); ok {
				if meta, ok := objMap["meta"].(map[string]interface{}); ok {
					if count, ok := meta["count"].(float64); ok {
						return int64(count), nil
					}
				}
			}
		}
	}

	return 0, fmt.Errorf("unexpected aggregate response for class %s", className)
}
