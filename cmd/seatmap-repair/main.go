// Command seatmap-repair reconciles the stored seats of trips against their
// configuration outside the HTTP server, for backfills and incident repair.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/config"
	"github.com/travelhub/seatmap-service/internal/database"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "compute plans without writing")
	tripIDs := flag.String("trip", "", "comma separated trip ids to reconcile")
	all := flag.Bool("all", false, "reconcile every stale scheduled trip")
	limit := flag.Int("limit", 500, "maximum stale trips to pick up with -all")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	if (*tripIDs == "") == !*all {
		logger.Fatal("Exactly one of -trip or -all is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	store, closeStore, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seatMaps := services.NewSeatMapService(store, cfg.SeatMap, logger)

	var result *models.BatchReconcileResult
	if *all {
		result, err = seatMaps.ReconcileStale(ctx, *limit, *dryRun)
	} else {
		result, err = seatMaps.ReconcileTrips(ctx, splitIDs(*tripIDs), *dryRun)
	}
	if err != nil {
		logger.Fatalf("Reconciliation aborted: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatalf("Failed to write result: %v", err)
	}

	if result.Failed > 0 {
		os.Exit(1)
	}
}

func splitIDs(raw string) []string {
	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
