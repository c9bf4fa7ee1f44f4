package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/baxromumarov/fundedlist/internal/store"
)

func main() {
	dbURL := flag.String("db", os.Getenv("DATABASE_URL"), "Database URL")
	schema := flag.String("schema", "", "Path to schema file (default: embedded schema)")
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("Database URL is required (-db or DATABASE_URL)")
	}

	db, err := store.NewStore(*dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(context.Background(), *schema); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations executed successfully")
}
