package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/spf13/cobra"
)

// buildCmd 静态化构建命令
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "静态化构建",
	Long:  `在命令行中生成静态页面，构建结果同样写入构建日志`,
}

// buildIndexCmd 生成首页
// 示例：./cms-api build index
var buildIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "生成首页",
	Run: func(cmd *cobra.Command, args []string) {
		runSingle(func(ctx context.Context, s *service.BuildService) (*dto.BuildResponse, error) {
			return s.BuildIndex(ctx, model.BuildTypeManual)
		})
	},
}

// buildArticlesCmd 生成文章列表
var buildArticlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "生成文章列表",
	Run: func(cmd *cobra.Command, args []string) {
		runSingle(func(ctx context.Context, s *service.BuildService) (*dto.BuildResponse, error) {
			return s.BuildArticleList(ctx, model.BuildTypeManual)
		})
	},
}

// buildTagsCmd 生成全部标签页
var buildTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "生成全部标签页",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, s *service.BuildService) (*staticgen.BatchResult, error) {
			return s.BuildTags(ctx, model.BuildTypeManual)
		})
	},
}

// buildPagesCmd 生成全部单页
var buildPagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "生成全部单页",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, s *service.BuildService) (*staticgen.BatchResult, error) {
			return s.BuildPages(ctx, model.BuildTypeManual)
		})
	},
}

// buildAllCmd 生成全站
// 示例：./cms-api build all
var buildAllCmd = &cobra.Command{
	Use:   "all",
	Short: "生成全站",
	Run: func(cmd *cobra.Command, args []string) {
		mustInitialize()
		res, err := service.NewBuildService().BuildAll(context.Background(), model.BuildTypeManual)
		if err != nil {
			fmt.Printf("全站生成失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("首页 %d, 列表页 %d, 文章 %d, 分类 %d, 标签 %d, 单页 %d, 失败 %d (批次 %d)\n",
			res.Index, res.ArticleListPages, res.Articles, res.Categories, res.Tags, res.Pages, res.Failed, res.BatchID)
		if res.Failed > 0 {
			os.Exit(2)
		}
	},
}

// sitemapCmd 生成站点地图
// 示例：./cms-api sitemap xml --domain https://example.com
var sitemapCmd = &cobra.Command{
	Use:       "sitemap [txt|xml|html|all]",
	Short:     "生成站点地图",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"txt", "xml", "html", "all"},
	Run: func(cmd *cobra.Command, args []string) {
		format := "all"
		if len(args) > 0 {
			format = args[0]
		}
		domain, _ := cmd.Flags().GetString("domain")

		mustInitialize()
		results, err := service.NewSitemapService().Generate(context.Background(), format, domain)
		if err != nil {
			fmt.Printf("站点地图生成失败: %v\n", err)
			os.Exit(1)
		}
		for _, r := range results {
			fmt.Printf("%-5s %d 条 -> %s\n", r.Format, r.Count, r.URL)
		}
	},
}

func init() {
	// 按ID生成的子命令
	byID := []struct {
		use, short string
		build      func(ctx context.Context, s *service.BuildService, id uint) (*dto.BuildResponse, error)
	}{
		{"article [id]", "生成文章详情页", func(ctx context.Context, s *service.BuildService, id uint) (*dto.BuildResponse, error) {
			return s.BuildArticle(ctx, id, model.BuildTypeManual)
		}},
		{"category [id]", "生成分类页", func(ctx context.Context, s *service.BuildService, id uint) (*dto.BuildResponse, error) {
			return s.BuildCategory(ctx, id, model.BuildTypeManual)
		}},
		{"tag [id]", "生成标签页", func(ctx context.Context, s *service.BuildService, id uint) (*dto.BuildResponse, error) {
			return s.BuildTag(ctx, id, model.BuildTypeManual)
		}},
		{"page [id]", "生成单页", func(ctx context.Context, s *service.BuildService, id uint) (*dto.BuildResponse, error) {
			return s.BuildPage(ctx, id, model.BuildTypeManual)
		}},
	}
	for _, item := range byID {
		build := item.build
		buildCmd.AddCommand(&cobra.Command{
			Use:   item.use,
			Short: item.short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				id, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil || id == 0 {
					fmt.Printf("无效的ID: %s\n", args[0])
					os.Exit(1)
				}
				runSingle(func(ctx context.Context, s *service.BuildService) (*dto.BuildResponse, error) {
					return build(ctx, s, uint(id))
				})
			},
		})
	}

	buildCmd.AddCommand(buildIndexCmd)
	buildCmd.AddCommand(buildArticlesCmd)
	buildCmd.AddCommand(buildTagsCmd)
	buildCmd.AddCommand(buildPagesCmd)
	buildCmd.AddCommand(buildAllCmd)

	sitemapCmd.Flags().String("domain", "", "站点地址未配置时使用的访问域名")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sitemapCmd)
}

// runSingle 执行单个构建并打印结果
func runSingle(build func(ctx context.Context, s *service.BuildService) (*dto.BuildResponse, error)) {
	mustInitialize()
	resp, err := build(context.Background(), service.NewBuildService())
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("生成成功: %d 个文件\n", len(resp.Files))
	for i, file := range resp.Files {
		if i < len(resp.URLs) {
			fmt.Printf("  %s -> %s\n", file, resp.URLs[i])
			continue
		}
		fmt.Printf("  %s\n", file)
	}
}

// runBatch 执行批量构建，失败明细见构建日志，存在失败项时以非零状态退出
func runBatch(build func(ctx context.Context, s *service.BuildService) (*staticgen.BatchResult, error)) {
	mustInitialize()
	res, err := build(context.Background(), service.NewBuildService())
	if err != nil {
		fmt.Printf("批量生成失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("成功 %d, 失败 %d (批次 %d)\n", res.Built, res.Failed, res.BatchID)
	if res.Failed > 0 {
		os.Exit(2)
	}
}
