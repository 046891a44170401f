// Package main provides a read-only inspection tool for the catalog database.
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/CreatorHub/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	counts := map[string]int{}
	shown := 0
	expiredSessions := 0
	now := time.Now()

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Secondary index keys carry no rows.
			if strings.Contains(key, ":idx:") {
				counts["index"]++
				continue
			}

			prefix, _, found := strings.Cut(key, ":")
			if !found {
				continue
			}
			counts[prefix]++

			switch prefix {
			case "content":
				if shown >= 5 {
					continue
				}
				err := item.Value(func(val []byte) error {
					var content domain.Content
					if err := json.Unmarshal(val, &content); err != nil {
						return err
					}
					fmt.Printf("Content: %s\n", content.Name)
					fmt.Printf("  ID: %s\n", content.ID)
					fmt.Printf("  Type: %s\n", content.Type)
					fmt.Printf("  Tags: %v\n", content.TagIDs)
					fmt.Println()
					shown++
					return nil
				})
				if err != nil {
					log.Printf("Error reading content %s: %v", key, err)
				}
			case "session":
				err := item.Value(func(val []byte) error {
					var session domain.Session
					if err := json.Unmarshal(val, &session); err != nil {
						return err
					}
					if session.ExpirationDate.Before(now) {
						expiredSessions++
					}
					return nil
				})
				if err != nil {
					log.Printf("Error reading session %s: %v", key, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Tags: %d\n", counts["tag"])
	fmt.Printf("Content: %d\n", counts["content"])
	fmt.Printf("Downloads: %d\n", counts["download"])
	fmt.Printf("Users: %d\n", counts["user"])
	fmt.Printf("Sessions: %d (%d expired)\n", counts["session"], expiredSessions)
	fmt.Printf("Index keys: %d\n", counts["index"])
}
