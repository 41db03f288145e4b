package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feralaibot/Feral-Ai-website/src/config"
)

const defaultConfigPath = "./config/config.toml"

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "feral",
	Short: "FERAL web platform: wallet reputation, evolution preview and collection generator.",
	Long:  "FERAL web platform: wallet reputation, evolution preview and collection generator.",
}

// Execute 解析命令行并执行对应子命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.feral/config.toml or ./config/config.toml)")
}

// initConfig 按 --config, $HOME/.feral/config.toml, ./config/config.toml 的顺序查找配置文件
func initConfig() {
	v = config.NewViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return
	}

	v.SetConfigFile(defaultConfigPath)
	home, err := homedir.Dir()
	if err != nil {
		return
	}
	if p := filepath.Join(home, ".feral", "config.toml"); fileExists(p) {
		v.SetConfigFile(p)
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// loadConfig 读取 initConfig 选中的配置文件
func loadConfig() (*config.Config, error) {
	return config.Unmarshal(v)
}
