package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/storage"
	"github.com/tierwatt/tierwatt/pkg/tariff"
	"github.com/tierwatt/tierwatt/pkg/types"
)

func main() {
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	projectID := lflag.String("firestore-project-id", "tierwatt-local", "Google Cloud Project ID for Firestore")
	file := lflag.String("tariff-file", "", "Optional JSON file with a list of extra tariffs to seed")
	lflag.Configure()

	ctx := context.Background()
	s := storage.NewFirestore(*projectID, "")
	if err := s.Init(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to init firestore", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	log.Ctx(ctx).InfoContext(ctx, "seeding tariffs")

	tariffs := []types.Tariff{tariff.CanonicalTariff()}
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to read tariff file", "error", err)
			os.Exit(1)
		}
		var extra []types.Tariff
		if err := json.Unmarshal(b, &extra); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to parse tariff file", "error", err)
			os.Exit(1)
		}
		tariffs = append(tariffs, extra...)
	}

	for _, tt := range tariffs {
		// only seed tables the server would accept
		if _, err := tariff.NewTable(tt); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "invalid tariff", "error", err)
			os.Exit(1)
		}
		if err := s.PutTariff(ctx, tt); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed tariff", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded tariff %s (%s, %d tiers)\n", tt.ID, tt.Name, len(tt.Tiers))
	}

	log.Ctx(ctx).InfoContext(ctx, "seeded tariffs successfully")
}
