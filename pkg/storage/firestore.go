package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tariffsCollection = "tariffs"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Each tariff is a document in the "tariffs" collection keyed by
// its ID holding the tariff as a JSON blob.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

var _ Database = (*FirestoreProvider)(nil)

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// NewFirestore returns an uninitialized provider for the project and database.
// Init must be called before use.
func NewFirestore(projectID, database string) *FirestoreProvider {
	return &FirestoreProvider{
		projectID: projectID,
		database:  database,
	}
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// an empty project ID is detected from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func decodeTariff(ctx context.Context, doc *firestore.DocumentSnapshot) (types.Tariff, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "tariff doc missing json", slog.String("tariffID", doc.Ref.ID), slog.Any("err", err))
		return types.Tariff{}, fmt.Errorf("tariff document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "tariff doc json not string", slog.String("tariffID", doc.Ref.ID))
		return types.Tariff{}, fmt.Errorf("tariff document %s 'json' field is not a string", doc.Ref.ID)
	}
	var t types.Tariff
	if err := json.Unmarshal([]byte(jsonStr), &t); err != nil {
		return types.Tariff{}, fmt.Errorf("failed to unmarshal tariff %s: %w", doc.Ref.ID, err)
	}
	// the document ID is authoritative
	t.ID = doc.Ref.ID
	return t, nil
}

// ListTariffs returns every tariff ordered by ID.
func (f *FirestoreProvider) ListTariffs(ctx context.Context) ([]types.Tariff, error) {
	iter := f.client.Collection(tariffsCollection).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var tariffs []types.Tariff
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating tariffs: %w", err)
		}
		t, err := decodeTariff(ctx, doc)
		if err != nil {
			return nil, err
		}
		tariffs = append(tariffs, t)
	}
	return tariffs, nil
}

// GetTariff returns the tariff with the given ID.
func (f *FirestoreProvider) GetTariff(ctx context.Context, id string) (types.Tariff, error) {
	if id == "" {
		return types.Tariff{}, fmt.Errorf("tariff id cannot be empty")
	}
	doc, err := f.client.Collection(tariffsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Tariff{}, fmt.Errorf("%w: %s", ErrTariffNotFound, id)
		}
		return types.Tariff{}, fmt.Errorf("failed to fetch tariff doc: %w", err)
	}
	return decodeTariff(ctx, doc)
}

// PutTariff adds or replaces a tariff.
func (f *FirestoreProvider) PutTariff(ctx context.Context, tariff types.Tariff) error {
	if tariff.ID == "" {
		return fmt.Errorf("tariff id cannot be empty")
	}
	jsonBytes, err := json.Marshal(tariff)
	if err != nil {
		return fmt.Errorf("failed to marshal tariff: %w", err)
	}
	_, err = f.client.Collection(tariffsCollection).Doc(tariff.ID).Set(ctx, map[string]interface{}{
		"json":    string(jsonBytes),
		"name":    tariff.Name,
		"updated": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save tariff: %w", err)
	}
	return nil
}
