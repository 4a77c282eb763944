package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/spf13/cobra"
)

var (
	// 这些变量在编译时通过 -ldflags 设置
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// versionCmd 版本信息命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Long:  `显示应用程序的版本信息以及支持的构建范围`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(versionText())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionText 版本信息文本
func versionText() string {
	scopes := make([]string, 0, len(staticgen.Scopes))
	for _, s := range staticgen.Scopes {
		scopes = append(scopes, string(s))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CMS静态化服务 %s\n", Version)
	fmt.Fprintf(&b, "Git提交: %s\n", GitCommit)
	fmt.Fprintf(&b, "构建时间: %s\n", BuildTime)
	fmt.Fprintf(&b, "Go版本: %s (%s)\n", GoVersion, Platform)
	fmt.Fprintf(&b, "构建范围: %s\n", strings.Join(scopes, ", "))
	fmt.Fprintf(&b, "站点地图: txt, xml, html\n")
	return b.String()
}
