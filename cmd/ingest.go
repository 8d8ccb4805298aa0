package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"label-ingest/core/config"
	"label-ingest/core/database"
	"label-ingest/core/logger"
	"label-ingest/core/storage"
	"label-ingest/feature/label"
	"label-ingest/feature/label/store"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the ingest command
	strategyFlag  string
	fromStorage   bool
	objectPrefix  string
	archiveReport bool
)

// ingestCmd ingests one or more label documents into the repository.
var ingestCmd = &cobra.Command{
	Use:   "ingest [file|object]...",
	Short: "Ingest label documents into the repository",
	Long: `Ingest one or more SPL label documents into the database.

Documents are read from local files by default, or from the configured object
storage bucket with --from-storage. Re-ingesting a document is safe: only
missing rows are created.

Examples:
  # Ingest a local file with the configured strategy
  label-ingest ingest label.xml

  # Force the batch strategy
  label-ingest ingest --strategy batch label.xml

  # Ingest staged documents from object storage
  label-ingest ingest --from-storage docs/label-1.xml

  # Ingest everything under a prefix and archive the reports
  label-ingest ingest --from-storage --prefix staged/ --archive-report`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&strategyFlag, "strategy", "", "Override the configured strategy (incremental, batch)")
	ingestCmd.Flags().BoolVar(&fromStorage, "from-storage", false, "Read documents from object storage instead of local files")
	ingestCmd.Flags().StringVar(&objectPrefix, "prefix", "", "Ingest every object under this storage prefix (implies --from-storage)")
	ingestCmd.Flags().BoolVar(&archiveReport, "archive-report", false, "Upload the ingestion report next to the source object")

	RootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if strategyFlag != "" {
		cfg.Ingest.Strategy = strategyFlag
	}
	strategy := cfg.Ingest.ResolveStrategy()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	service := label.NewService(store.New(db), l, strategy)

	if objectPrefix != "" {
		fromStorage = true
	}

	if !fromStorage {
		if len(args) == 0 {
			return fmt.Errorf("no documents given; pass file paths or use --from-storage")
		}
		for _, path := range args {
			if err := ingestFile(ctx, service, l, path); err != nil {
				return err
			}
		}
		return nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	objects := args
	if objectPrefix != "" {
		objects, err = listObjects(ctx, client, cfg.Storage.Bucket, objectPrefix)
		if err != nil {
			return err
		}
		l.Info("Discovered staged documents", zap.Int("count", len(objects)), zap.String("prefix", objectPrefix))
	}
	if len(objects) == 0 {
		return fmt.Errorf("no documents found to ingest")
	}

	for _, object := range objects {
		if err := ingestObject(ctx, service, client, cfg.Storage.Bucket, l, object); err != nil {
			return err
		}
	}
	return nil
}

func ingestFile(ctx context.Context, service *label.Service, l *zap.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	report, err := service.Ingest(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", path, err)
	}
	printReport(l, path, report)
	return nil
}

func ingestObject(ctx context.Context, service *label.Service, client storage.Client, bucket string, l *zap.Logger, object string) error {
	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", object, err)
	}

	report, err := service.Ingest(ctx, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", object, err)
	}
	printReport(l, object, report)

	if archiveReport {
		if err := uploadReport(ctx, client, bucket, object, report); err != nil {
			// Archival is best effort; the ingestion itself succeeded.
			l.Warn("Failed to archive ingestion report", zap.String("object", object), zap.Error(err))
		}
	}
	return nil
}

func listObjects(ctx context.Context, client storage.Client, bucket, prefix string) ([]string, error) {
	var objects []string
	for info := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, info.Err)
		}
		if strings.HasSuffix(strings.ToLower(info.Key), ".xml") {
			objects = append(objects, info.Key)
		}
	}
	return objects, nil
}

func uploadReport(ctx context.Context, client storage.Client, bucket, object string, report *label.IngestReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	key := strings.TrimSuffix(object, ".xml") + ".report.json"
	_, err = client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	return nil
}

func printReport(l *zap.Logger, source string, report *label.IngestReport) {
	l.Info("Ingestion report",
		zap.String("source", source),
		zap.String("document_guid", report.DocumentGUID),
		zap.String("strategy", report.Strategy),
		zap.Int("edges_created", report.EdgesCreated),
		zap.Int("characteristics_created", report.CharacteristicsCreated),
		zap.Int("malformed_references", report.MalformedReferences),
		zap.Int("store_failures", report.StoreFailures),
	)

	// Show a sample of errors (max 5 for logger)
	maxShow := 5
	if len(report.Errors) < maxShow {
		maxShow = len(report.Errors)
	}
	for i := 0; i < maxShow; i++ {
		l.Warn("Ingestion error", zap.String("error", report.Errors[i]))
	}
	if len(report.Errors) > maxShow {
		l.Warn("Additional errors not shown", zap.Int("count", len(report.Errors)-maxShow))
	}
}
