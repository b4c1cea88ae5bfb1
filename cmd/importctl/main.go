package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"hardware-distribution-backend/config"
	"hardware-distribution-backend/imports/services"
	"hardware-distribution-backend/internal/bootstrap"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "importctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importctl",
		Short: "Store import and achievement tooling",
		Long: `importctl runs the bulk store import and the achievement engine against the
configured database without going through the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger()
			config.LoadEnv()
		},
	}
	cmd.PersistentFlags().StringVar(&indexPath, "index-path", "", "Bleve index directory (default: BLEVE_INDEX_PATH or ./bleve_data)")
	cmd.AddCommand(
		newImportCmd(),
		newProgressCmd(),
		newAchievementsCmd(),
		newReindexCmd(),
	)
	return cmd
}

// cliServices closes the Redis client along with the search index.
type cliServices struct {
	*bootstrap.Services
	redis *redis.Client
}

func (s *cliServices) Close() error {
	if s.redis != nil {
		s.redis.Close()
	}
	return s.Services.Close()
}

// openServices connects to the database, and to Redis when REDIS_ADDRESS is
// set so recorded metrics invalidate the API's cached snapshots. The CLI has
// no live clients, so the event hub stays off.
func openServices(ctx context.Context) *cliServices {
	path := indexPath
	if path == "" {
		path = config.GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data")
	}
	redisClient, err := config.ConnectRedisIfConfigured(ctx)
	if err != nil {
		config.Logger.Warn("Redis unavailable, achievement snapshots will not be invalidated", zap.Error(err))
	}
	return &cliServices{
		Services: bootstrap.NewServices(config.ConfigureDatabase(), redisClient, nil, path),
		redis:    redisClient,
	}
}

func localFile(path string) (services.RawFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return services.RawFile{}, err
	}
	return services.RawFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func newImportCmd() *cobra.Command {
	var user string
	var createdBy string
	var sessionName string

	cmd := &cobra.Command{
		Use:   "import <file...>",
		Short: "Import store spreadsheets (.xlsx, .xls, .csv)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			batch := services.Batch{SessionName: sessionName, CreatedBy: createdBy}
			if user != "" {
				id, err := uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				batch.UserID = &id
			}
			for _, path := range args {
				file, err := localFile(path)
				if err != nil {
					return err
				}
				batch.Files = append(batch.Files, file)
			}

			svc := openServices(ctx)
			defer svc.Close()

			result, err := svc.Pipeline.ProcessBatch(ctx, batch)
			if err != nil {
				return err
			}

			if batch.UserID != nil {
				for _, file := range result.Results {
					if file.Performance == nil {
						continue
					}
					recorded, err := svc.Engine.RecordImportMetrics(ctx, *batch.UserID, result.SessionID.String(), file.FileName, *file.Performance)
					if err != nil {
						return fmt.Errorf("record achievements for %s: %w", file.FileName, err)
					}
					for _, a := range recorded.NewAchievements {
						fmt.Fprintf(cmd.OutOrStdout(), "unlocked: %s (+%d)\n", a.Name, a.PointsAwarded)
					}
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message())
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User UUID credited with the import")
	cmd.Flags().StringVar(&createdBy, "created-by", "importctl", "Value written to created_by")
	cmd.Flags().StringVar(&sessionName, "session-name", "", "Import session name")
	return cmd
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Manage achievement progress",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <userId>",
		Short: "Create missing progress rows for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			svc := openServices(cmd.Context())
			defer svc.Close()
			if err := svc.Engine.InitializeUserProgress(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "progress initialized for %s\n", userID)
			return nil
		},
	})
	return cmd
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements <userId>",
		Short: "Print a user's achievement snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			svc := openServices(cmd.Context())
			defer svc.Close()
			snapshot, err := svc.Engine.GetUserAchievements(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		},
	}
}

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the store search index from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := openServices(cmd.Context())
			defer svc.Close()
			count, err := bootstrap.IndexBleveData(cmd.Context(), svc.StoreRepo, svc.SearchIndex)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d stores\n", count)
			return nil
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
