package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/spf13/cobra"
)

// logsCmd 构建日志命令
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "构建日志管理",
	Long:  `查看构建日志统计，清理过期的构建日志`,
}

// clearLogsCmd 清理过期日志
// 示例：./cms-api logs clear --days 30
var clearLogsCmd = &cobra.Command{
	Use:   "clear",
	Short: "清理过期构建日志",
	Long:  `删除指定天数之前的构建日志，至少保留7天`,
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		mustInitialize()

		n, err := service.NewBuildLogService().Clear(context.Background(), days)
		if err != nil {
			fmt.Printf("清理失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("已删除 %d 条 %d 天前的构建日志\n", n, days)
	},
}

// logStatsCmd 构建日志统计
var logStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "构建日志统计",
	Run: func(cmd *cobra.Command, args []string) {
		mustInitialize()

		stats, err := service.NewBuildLogService().Stats(context.Background())
		if err != nil {
			fmt.Printf("统计失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("=== 构建日志统计 ===")
		fmt.Printf("日志总数: %d (失败: %d)\n", stats.Total, stats.Failed)
		for _, s := range stats.ByScope {
			fmt.Printf("%-14s %-8s %d\n", s.Scope, s.Status, s.Count)
		}
		if f := stats.LastFailure; f != nil {
			fmt.Printf("最近失败: #%d %s/%d %s %s\n",
				f.ID, f.Scope, f.TargetID, f.CreatedAt.Format("2006-01-02 15:04:05"), f.ErrorMessage)
		}
	},
}

func init() {
	clearLogsCmd.Flags().Int("days", service.MinLogRetentionDays, "保留最近多少天的日志")

	logsCmd.AddCommand(clearLogsCmd)
	logsCmd.AddCommand(logStatsCmd)

	rootCmd.AddCommand(logsCmd)
}
