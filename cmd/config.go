package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/FolioChat/internal/config"
	"github.com/Rorical/FolioChat/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
	// init must work even when the current file does not validate
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New("warn", "", verbose)
		return err
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if backendURL != "" {
			c.BackendURL = backendURL
		}

		shown := *c
		if shown.OpenAI.APIKey != "" {
			shown.OpenAI.APIKey = maskKey(shown.OpenAI.APIKey)
		}
		data, err := json.MarshalIndent(shown, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var pathConfigCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}

		// Start from the existing file when it loads, otherwise from defaults
		c, err := config.LoadConfig(path)
		if err != nil {
			c = config.Default()
		}

		backendSelect := promptui.Select{
			Label: "Backend",
			Items: []string{config.BackendPortfolio, config.BackendOpenAI},
		}
		_, c.Backend, err = backendSelect.Run()
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}

		if c.Backend == config.BackendPortfolio {
			urlPrompt := promptui.Prompt{
				Label:    "Backend URL",
				Default:  c.BackendURL,
				Validate: validateURL,
			}
			c.BackendURL, err = urlPrompt.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		} else {
			apiKeyPrompt := promptui.Prompt{
				Label:   "API Key",
				Default: c.OpenAI.APIKey,
				Mask:    '*',
			}
			c.OpenAI.APIKey, err = apiKeyPrompt.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}

			modelPrompt := promptui.Prompt{
				Label:   "Model",
				Default: c.OpenAI.Model,
			}
			c.OpenAI.Model, err = modelPrompt.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}

			baseURLPrompt := promptui.Prompt{
				Label:   "Base URL (optional)",
				Default: c.OpenAI.BaseURL,
			}
			c.OpenAI.BaseURL, err = baseURLPrompt.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		retryPrompt := promptui.Prompt{
			Label:    "Retry attempts",
			Default:  strconv.Itoa(c.RetryAttempts),
			Validate: validatePositiveInt,
		}
		retries, err := retryPrompt.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		c.RetryAttempts, _ = strconv.Atoi(retries)

		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := c.SaveAs(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

func validateURL(input string) error {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter an absolute URL such as http://localhost:8000")
	}
	return nil
}

func validatePositiveInt(input string) error {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of at least 1")
	}
	return nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(pathConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}
