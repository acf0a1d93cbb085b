package storage

import (
	"context"
	"fmt"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "none", "Storage provider to load extra tariffs from (available: none, firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "none", "":
			p.Database = NewMemory()
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
