package cmd

import (
	"fmt"

	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/spf13/cobra"
)

// statsCmd 统计命令
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "内容统计信息",
	Long:  `显示文章、分类、标签、单页的数量以及可静态化的数量`,
	Run: func(cmd *cobra.Command, args []string) {
		showContentStats()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// showContentStats 显示内容统计信息
func showContentStats() {
	mustInitialize()

	db := database.GetDB()

	fmt.Println("=== 内容统计信息 ===")

	// 文章统计
	var articleCount, publishedCount, draftCount, recycledCount int64
	db.Model(&model.Article{}).Where("lifecycle = ?", model.LifecycleActive).Count(&articleCount)
	db.Model(&model.Article{}).
		Where("lifecycle = ? AND status = ?", model.LifecycleActive, model.ArticleStatusPublished).
		Count(&publishedCount)
	db.Model(&model.Article{}).
		Where("lifecycle = ? AND status = ?", model.LifecycleActive, model.ArticleStatusDraft).
		Count(&draftCount)
	db.Model(&model.Article{}).Where("lifecycle = ?", model.LifecycleRecycled).Count(&recycledCount)

	// 分类、标签、单页统计
	var categoryCount, enabledCategoryCount int64
	db.Model(&model.Category{}).Count(&categoryCount)
	db.Model(&model.Category{}).Where("status = ?", model.StatusEnabled).Count(&enabledCategoryCount)

	var tagCount, enabledTagCount int64
	db.Model(&model.Tag{}).Count(&tagCount)
	db.Model(&model.Tag{}).Where("status = ?", model.StatusEnabled).Count(&enabledTagCount)

	var pageCount, publishedPageCount int64
	db.Model(&model.Page{}).Count(&pageCount)
	db.Model(&model.Page{}).Where("status = ?", 1).Count(&publishedPageCount)

	fmt.Printf("文章总数: %d (已发布: %d, 草稿: %d, 回收站: %d)\n", articleCount, publishedCount, draftCount, recycledCount)
	fmt.Printf("分类总数: %d (启用: %d)\n", categoryCount, enabledCategoryCount)
	fmt.Printf("标签总数: %d (启用: %d)\n", tagCount, enabledTagCount)
	fmt.Printf("单页总数: %d (已发布: %d)\n", pageCount, publishedPageCount)
}
