package cmd

import (
	"fmt"
	"os"

	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/spf13/cobra"
)

// databaseCmd 数据库管理命令
var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
	Long:  `数据库管理相关的命令，包括建表与默认配置初始化`,
}

// migrateCmd 迁移数据库表命令
// 示例：./cms-api db migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "迁移数据库表",
	Long:  `自动迁移数据库表，并写入缺失的默认配置项`,
	Run: func(cmd *cobra.Command, args []string) {
		migrateDatabase()
	},
}

func init() {
	databaseCmd.AddCommand(migrateCmd)

	// 将数据库命令添加到根命令
	rootCmd.AddCommand(databaseCmd)
}

// migrateDatabase 只初始化配置、日志与数据库，不组装静态化引擎
func migrateDatabase() {
	if err := config.Init(configPath); err != nil {
		fmt.Printf("配置初始化失败: %v\n", err)
		os.Exit(1)
	}
	_ = logger.Init()
	defer logger.Sync()

	db := database.GetDB()
	if err := model.InitTables(db); err != nil {
		fmt.Printf("迁移失败: %v\n", err)
		os.Exit(1)
	}
	if err := model.SeedSettings(db); err != nil {
		fmt.Printf("写入默认配置失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("数据库迁移完成")
}
