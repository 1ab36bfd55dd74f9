// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/config"
	"roommate_finder_backend/internal/listing"
	"roommate_finder_backend/internal/platform/database"
	platformElasticsearch "roommate_finder_backend/internal/platform/elasticsearch"
	"roommate_finder_backend/internal/platform/logger"
)

func main() {
	syncListingsCmd := flag.NewFlagSet("sync-listings", flag.ExitOnError)
	batchSize := syncListingsCmd.Int("batch-size", 100, "Batch size for syncing listings")
	esRefresh := syncListingsCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-listings" {
		syncListingsCmd.Parse(os.Args[2:])
		runSyncCommand(*batchSize, *esRefresh)
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if err := database.AutoMigrate(server.DB); err != nil {
		server.AppLogger.Fatal("Failed to run schema migration", zap.Error(err))
	}

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateListingsIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch listings index", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runSyncCommand re-indexes every listing into Elasticsearch in bulk batches.
func runSyncCommand(batchSize int, esRefresh string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database for sync", zap.Error(err))
	}
	defer database.CloseGORMDB(db)

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Elasticsearch client for sync", zap.Error(err))
	}
	if esClient == nil {
		appLogger.Fatal("Elasticsearch is not configured; set ELASTICSEARCH_URL to run sync-listings.")
	}

	if err := platformElasticsearch.CreateListingsIndexIfNotExists(esClient, appLogger); err != nil {
		appLogger.Fatal("Failed to create/verify Elasticsearch index before sync", zap.Error(err))
	}

	listingRepo := listing.NewGORMRepository(db)
	if err := runListingSync(listingRepo, esClient, appLogger, batchSize, esRefresh); err != nil {
		appLogger.Fatal("Listing synchronization failed", zap.Error(err))
	}
	appLogger.Info("Listing synchronization completed successfully.")
}

// runListingSync pushes all listings to the search index using the Bulk API.
func runListingSync(
	listingRepo listing.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	ctx := context.Background()
	listings, err := listingRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	if len(listings) == 0 {
		logger.Info("No listings to sync.")
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	logger.Info("Starting listing synchronization to Elasticsearch...",
		zap.Int("total", len(listings)),
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	totalSynced := 0
	totalFailed := 0

	for start := 0; start < len(listings); start += batchSize {
		end := start + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]

		var bulkBody strings.Builder
		for i := range batch {
			l := &batch[i]
			docJSON, errDoc := json.Marshal(listing.ToSearchDocument(l))
			if errDoc != nil {
				logger.Error("Failed to marshal listing document",
					zap.Int64("listingID", l.ID), zap.Error(errDoc))
				totalFailed++
				continue
			}
			fmt.Fprintf(&bulkBody, `{ "index" : { "_index" : "%s", "_id" : "%d" } }%s`,
				platformElasticsearch.ListingsIndexName, l.ID, "\n")
			bulkBody.Write(docJSON)
			bulkBody.WriteString("\n")
		}
		if bulkBody.Len() == 0 {
			continue
		}

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkBody.String()),
			Refresh: esRefresh,
		}
		res, errBulk := req.Do(ctx, esClient.Client)
		if errBulk != nil {
			logger.Error("Bulk request failed", zap.Error(errBulk))
			totalFailed += len(batch)
			continue
		}

		var bulkResponse struct {
			Errors bool `json:"errors"`
			Items  []struct {
				Index struct {
					ID     string                 `json:"_id"`
					Status int                    `json:"status"`
					Error  map[string]interface{} `json:"error,omitempty"`
				} `json:"index"`
			} `json:"items"`
		}
		if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
			logger.Error("Failed to parse bulk response body", zap.Error(err))
			totalFailed += len(batch)
			res.Body.Close()
			continue
		}
		res.Body.Close()

		for _, item := range bulkResponse.Items {
			if item.Index.Error != nil {
				logger.Error("Failed to index document",
					zap.String("listingID", item.Index.ID),
					zap.Int("status", item.Index.Status),
					zap.Any("error", item.Index.Error),
				)
				totalFailed++
			} else {
				totalSynced++
			}
		}
	}

	logger.Info("Listing synchronization process finished.",
		zap.Int("totalSynced", totalSynced),
		zap.Int("totalFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d listings failed to sync", totalFailed)
	}
	return nil
}
