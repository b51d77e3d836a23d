/*
Package cmd implements the command-line interface for the bindu client
engine.  It provides commands for chatting with a remote agent, managing
conversation contexts, rating tasks and running a local development agent.
*/
package cmd

import (
	"embed"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
This will be written to the home directory of the user running the tool,
which allows a developer to easily override the config file.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	projectName = "bindu-go"
	cfgFile     string

	rootCmd = &cobra.Command{
		Use:   "bindu-go",
		Short: "A client engine for task-oriented agent RPC",
		Long:  longRoot,
	}
)

/*
Execute is the main entry point for the bindu-go CLI.
*/
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is $HOME/."+projectName+"/config.yml)",
	)
}

/*
initConfig reads the config file named by --config when given.  Otherwise
it writes the default config file to the user's home directory if it
doesn't exist yet, then reads the config from there.
*/
func initConfig() {
	if err := loadConfig(cfgFile); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
		return viper.ReadInConfig()
	}

	if err := writeConfig(); err != nil {
		return err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	home, _ := os.UserHomeDir()
	viper.AddConfigPath(home + "/." + projectName)

	return viper.ReadInConfig()
}

/*
writeConfig copies the embedded default config into the user's home
directory unless one is already there.
*/
func writeConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	dir := filepath.Join(home, "."+projectName)
	path := filepath.Join(dir, "config.yml")

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	defaultCfg, err := embedded.ReadFile("cfg/config.yml")
	if err != nil {
		return err
	}

	return os.WriteFile(path, defaultCfg, 0o644)
}

var longRoot = `
bindu-go drives a remote agent through an asynchronous, task-oriented RPC
protocol: a submitted message creates a long-running task which the client
tracks to completion via polling or event streaming, deciding on each
follow-up whether to continue the same task or start a new one.
`
