package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/stadslab/heat-readiness-map/apps/api/internal/business/dataset"
	"github.com/stadslab/heat-readiness-map/apps/api/internal/platform/config"
	"github.com/stadslab/heat-readiness-map/apps/api/internal/platform/gcs"
	apirouter "github.com/stadslab/heat-readiness-map/apps/api/internal/platform/http"
	"github.com/stadslab/heat-readiness-map/apps/api/internal/platform/regions"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	dataFetcher, regionsFetcher, err := buildFetchers(ctx, cfg)
	if err != nil {
		log.Fatalf("data source init: %v", err)
	}

	regionList := loadRegions(ctx, regionsFetcher)

	dataService := dataset.NewService(dataFetcher)
	stats, err := dataService.Load(ctx)
	if err != nil {
		log.Fatalf("initial dataset load: %v", err)
	}
	log.Printf("loaded snapshot %s: %d buildings from %d rows (%d skipped)",
		stats.SnapshotID, stats.Buildings, stats.Rows, stats.SkippedRows)

	router := apirouter.NewRouter(dataService, regionList, cfg.DefaultCriteria, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on :%s", cfg.Port)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server exited")
}

// buildFetchers resolves the configured sources for the CSV extract and the
// neighborhood boundaries. GCS wins over a URL, a URL over a local file. The
// regions fetcher may be nil; the map then runs without neighborhood rollups.
func buildFetchers(ctx context.Context, cfg config.Config) (dataset.Fetcher, dataset.Fetcher, error) {
	if cfg.GCSBucket != "" {
		client, credsSource, err := gcs.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := gcs.Ping(ctx, client, cfg.GCSBucket); err != nil {
			return nil, nil, err
		}
		log.Printf("connected to bucket %s using %s credentials", cfg.GCSBucket, credsSource)

		var regionsFetcher dataset.Fetcher
		if cfg.RegionsObject != "" {
			regionsFetcher = gcs.NewObjectFetcher(client, cfg.GCSBucket, cfg.RegionsObject)
		}
		return gcs.NewObjectFetcher(client, cfg.GCSBucket, cfg.DataObject), regionsFetcher, nil
	}

	var regionsFetcher dataset.Fetcher
	if cfg.RegionsFile != "" {
		regionsFetcher = dataset.NewFileFetcher(cfg.RegionsFile)
	}
	if cfg.DataURL != "" {
		return dataset.NewHTTPFetcher(cfg.DataURL), regionsFetcher, nil
	}
	return dataset.NewFileFetcher(cfg.DataFile), regionsFetcher, nil
}

func loadRegions(ctx context.Context, fetcher dataset.Fetcher) []model.Region {
	if fetcher == nil {
		log.Println("no regions source configured; neighborhood aggregation disabled")
		return nil
	}
	body, err := fetcher.Fetch(ctx)
	if err != nil {
		log.Fatalf("fetch regions: %v", err)
	}
	defer body.Close()

	regionList, err := regions.Load(body)
	if err != nil {
		log.Fatalf("load regions: %v", err)
	}
	log.Printf("loaded %d neighborhood regions", len(regionList))
	return regionList
}
