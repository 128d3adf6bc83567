package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// Loads the ingredient reference data from a CSV file with a
// name,measurement_unit header. Existing rows are left untouched.
func main() {
	csvPath := flag.String("file", "data/ingredients.csv", "Path to the ingredients CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}

	nameIdx, unitIdx := -1, -1
	for i, col := range header {
		switch col {
		case "name":
			nameIdx = i
		case "measurement_unit":
			unitIdx = i
		}
	}
	if nameIdx < 0 || unitIdx < 0 {
		log.Fatal("CSV must have name and measurement_unit columns")
	}

	created := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read CSV record: %v", err)
		}

		ingredient := models.Ingredient{
			Name:            record[nameIdx],
			MeasurementUnit: record[unitIdx],
		}
		result := db.Where(
			"name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit,
		).FirstOrCreate(&ingredient)
		if result.Error != nil {
			log.Fatalf("Failed to insert ingredient %q: %v", ingredient.Name, result.Error)
		}
		created += int(result.RowsAffected)
	}

	log.Printf("Seeded %d new ingredients", created)
}
