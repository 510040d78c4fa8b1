// @title NihongoLab 后端 API
// @version 1.0
// @description 日语学习进度、等级与复习调度服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"log"
	"nihongolab_backend/internal/app"
	"nihongolab_backend/internal/config"
	"nihongolab_backend/pkg/logger"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

func loadConfig(forceMigrate bool) (*config.Config, error) {
	// .env 不存在时忽略，直接使用进程环境变量
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ForceMigrate = forceMigrate
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(migrate)
			if err != nil {
				return err
			}
			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			if migrate {
				if _, err := application.SeedLevels(cmd.Context()); err != nil {
					return err
				}
			}
			return application.Run(configDir)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移并写入默认等级，完成后退出",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			seeded, err := application.SeedLevels(cmd.Context())
			if err != nil {
				return err
			}
			logger.Log.Info("数据库迁移完成", zap.Int("seededLevels", seeded))
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "从 Excel 工作簿导入等级、题目与词汇",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Services.Import.ImportWorkbook(cmd.Context(), f)
			if err != nil {
				return err
			}
			logger.Log.Info("导入完成",
				zap.String("file", file),
				zap.Int("levels", result.LevelsUpserted),
				zap.Int("questions", result.QuestionsCreated),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "xlsx 文件路径，可包含 levels、questions 与 vocabulary 工作表")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:          "nihongolab",
		Short:        "NihongoLab 学习进度与复习服务",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "配置文件目录")
	root.AddCommand(newServeCmd(), newMigrateCmd(), newImportCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
