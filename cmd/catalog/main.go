package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/coursehub-backend/internal/app"
	"github.com/yungbote/coursehub-backend/internal/catalog"
	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

var catalogFile string

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and seed the course catalog",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a catalog file without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		lessons := 0
		for _, course := range c.Courses {
			lessons += len(course.Lessons)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d courses, %d lessons\n", len(c.Courses), lessons)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert catalog courses that are not in the database yet",
	Long: `Insert every course from the catalog whose title is not already present,
together with its lessons. Without --file the bundled sample catalog is used.

Database settings come from the same environment as the API server
(DB_DRIVER, POSTGRES_*, SQLITE_PATH).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		cfg, err := app.LoadConfig(os.Getenv("CONFIG_PATH"))
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		dbService, err := db.NewDatabaseService(log, cfg.DB)
		if err != nil {
			return err
		}
		defer dbService.Close()
		if err := dbService.AutoMigrateAll(); err != nil {
			return err
		}

		theDB := dbService.DB()
		seeder := catalog.NewSeeder(theDB, log, repos.NewCourseRepo(theDB, log), repos.NewLessonRepo(theDB, log))
		res, err := seeder.Seed(cmd.Context(), c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d courses (%d lessons), skipped %d existing\n",
			res.CoursesCreated, res.LessonsCreated, res.CoursesSkipped)
		return nil
	},
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogFile == "" {
		return catalog.Sample()
	}
	return catalog.LoadFile(catalogFile)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "file", "f", "", "catalog YAML file (default: bundled sample)")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
