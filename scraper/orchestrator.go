package scraper

import (
	"context"
	"fmt"
	"log"

	"otodom_scraper/config"
	"otodom_scraper/exporter"
	"otodom_scraper/models"
	"otodom_scraper/storage"
)

// Orchestrator runs configured scrape profiles, keeps run bookkeeping
// and exports results. The store may be nil for throwaway runs.
type Orchestrator struct {
	cfg    *config.Config
	client *Client
	store  *storage.SQLiteStore
}

func NewOrchestrator(cfg *config.Config, client *Client, store *storage.SQLiteStore) *Orchestrator {
	return &Orchestrator{cfg: cfg, client: client, store: store}
}

// RunAll runs every configured profile; one failing profile does not
// stop the others.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	for id := range o.cfg.Profiles {
		if _, err := o.RunProfile(ctx, id); err != nil {
			log.Printf("Error running profile %s: %v", id, err)
		}
	}
	return nil
}

// RunProfile scrapes one profile, truncates the overshoot of the last
// page to the profile limit and exports the offers as JSON.
func (o *Orchestrator) RunProfile(ctx context.Context, id string) ([]models.Offer, error) {
	profile, ok := o.cfg.Profiles[id]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", id)
	}

	filters := Filters{}
	for k, v := range profile.Filters {
		filters[k] = v
	}
	// Env-driven one-shot overrides.
	if o.cfg.Scraper.PriceTo != "" {
		if _, set := filters["priceMax"]; !set {
			filters["priceMax"] = o.cfg.Scraper.PriceTo
		}
	}
	limit := profile.Limit
	if o.cfg.Scraper.ScrapeLimit > 0 && (limit == 0 || o.cfg.Scraper.ScrapeLimit < limit) {
		limit = o.cfg.Scraper.ScrapeLimit
	}

	run := &models.ScrapeRun{Profile: id}
	if o.store != nil {
		if err := o.store.CreateRun(run); err != nil {
			log.Printf("Warning: failed to record run for %s: %v", id, err)
		}
	}

	log.Printf("Starting scrape for profile %s (%s/%s, region %q)",
		id, profile.MainCategory, profile.DetailCategory, profile.Region)

	offers, err := o.client.ScrapeCategory(ctx, profile.MainCategory, profile.DetailCategory,
		profile.Region, profile.PageSize, limit, filters)
	if err != nil {
		o.finishRun(run, models.RunStatusFailed, offers, profile.PageSize, 1)
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}

	// The driver may overshoot by part of the final page.
	if limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}

	o.finishRun(run, models.RunStatusCompleted, offers, profile.PageSize, 0)

	if path, err := exporter.WriteJSON(o.cfg.OutDir, id, offers); err != nil {
		log.Printf("Warning: export for %s failed: %v", id, err)
	} else {
		log.Printf("Exported %d offers to %s", len(offers), path)
	}

	return offers, nil
}

func (o *Orchestrator) finishRun(run *models.ScrapeRun, status models.RunStatus, offers []models.Offer, pageSize, errs int) {
	if o.store == nil {
		return
	}

	run.Status = status
	run.OffersFound = len(offers)
	run.ErrorsCount = errs
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	run.PagesDone = (len(offers) + pageSize - 1) / pageSize

	if err := o.store.FinishRun(run); err != nil {
		log.Printf("Warning: failed to finish run %s: %v", run.ID, err)
	}
}
