package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"otodom_scraper/models"
)

// WriteJSON dumps a run's offers to a timestamped JSON file under dir
// and returns the path.
func WriteJSON(dir, profile string, offers []models.Offer) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", profile, time.Now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(offers); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

// WriteCSV dumps a run's offers to a timestamped CSV file under dir
// and returns the path.
func WriteCSV(dir, profile string, offers []models.Offer) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.csv", profile, time.Now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"detail_url", "offer_id", "price", "size", "rooms", "price_per_m2", "calculated_per_m2", "image"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, offer := range offers {
		record := []string{
			offer.DetailURL,
			offer.OfferID,
			strconv.FormatFloat(offer.Price, 'f', 2, 64),
			strconv.FormatFloat(offer.Size, 'f', 2, 64),
			strconv.Itoa(offer.Rooms),
			strconv.FormatFloat(offer.PricePerM2, 'f', 2, 64),
			strconv.FormatFloat(offer.CalculatedPerM2, 'f', 2, 64),
			offer.Image,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return path, w.Error()
}
