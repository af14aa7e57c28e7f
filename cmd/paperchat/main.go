// Package main 是 paperchat 的命令行入口
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version 在构建时通过 ldflags 注入
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "对话式论文检索服务",
	Long: `paperchat 是一个对话驱动的论文检索服务：
通过大模型理解用户意图，从 arXiv 检索论文，
按相关性排序后返回，并支持 PDF 下载到本地。`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认查找 ./config 和 ~/.paperchat/config）")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
