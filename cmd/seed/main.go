// Package main provides a tool to seed the database with sample catalog data.
//
// Useful for exercising the catalog endpoints and the search index without a
// production data dump.
//
// Usage:
//
//	DB_PATH=~/CreatorHub/data/db go run ./cmd/seed
//	DB_PATH=~/CreatorHub/data/db go run ./cmd/seed --count 50
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
	"github.com/creatorhubapp/creatorhub-server/internal/store"
)

var count = flag.Int("count", 25, "Number of content items to create")

var sampleTags = map[string]string{
	"nature":  "Nature",
	"urban":   "Urban",
	"gaming":  "Gaming",
	"lofi":    "Lo-Fi",
	"talking": "Talking Head",
}

var sampleNames = []string{
	"Forest Walk", "City Rain", "Desert Dunes", "Neon Alley", "Morning Mist",
	"Night Drive", "Mountain Pass", "Ocean Swell", "Rooftop View", "Quiet Study",
}

var sampleTypes = []domain.ContentType{
	domain.ContentTypeImage,
	domain.ContentTypeVideo,
	domain.ContentTypeMusic,
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/CreatorHub/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	st, err := store.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	// No search index here; the server rebuilds it from the store on startup.
	manager := service.NewContentManager(st, nil, nil)
	if err := manager.Load(ctx); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	tagIDs := make([]string, 0, len(sampleTags))
	for id, name := range sampleTags {
		if err := manager.AddTag(ctx, id, name); err != nil {
			log.Fatalf("Failed to create tag %s: %v", id, err)
		}
		tagIDs = append(tagIDs, id)
	}
	fmt.Printf("Created %d tags\n", len(tagIDs))

	created := 0
	for i := range *count {
		name := fmt.Sprintf("%s #%d", sampleNames[rand.IntN(len(sampleNames))], i+1)

		// One or two tags per item.
		tags := []string{tagIDs[rand.IntN(len(tagIDs))]}
		if rand.IntN(2) == 0 {
			tags = append(tags, tagIDs[rand.IntN(len(tagIDs))])
		}

		item, err := manager.CreateContent(ctx, service.CreateContentParams{
			Name:     name,
			Type:     sampleTypes[rand.IntN(len(sampleTypes))],
			UseCases: []string{"backgrounds", "intros"},
			TagIDs:   tags,
			Downloads: []service.DownloadParams{
				{Name: "HD", URL: fmt.Sprintf("https://cdn.example.com/%d/hd", i)},
				{Name: "Thumbnail", URL: fmt.Sprintf("https://cdn.example.com/%d/thumb", i)},
			},
		})
		if err != nil {
			log.Fatalf("Failed to create content %q: %v", name, err)
		}
		created++
		if created <= 3 {
			fmt.Printf("  %s (%s) tags=%v\n", item.Name, item.ID, item.TagIDs)
		}
	}

	fmt.Printf("Created %d content items\n", created)
}
