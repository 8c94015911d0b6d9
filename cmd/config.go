package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/bugbounty-agent/pkg/adk"
	"github.com/user/bugbounty-agent/pkg/config"
	"go.uber.org/zap"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys)",
}

// updateConfig loads the config file, applies change and writes it back
func updateConfig(change func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := change(cfg); err != nil {
		return nil, err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}
	return cfg, nil
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key of a hosted provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")
		provider = strings.ToLower(strings.TrimSpace(provider))
		if provider == "" || key == "" {
			return fmt.Errorf("--provider and --key are required")
		}

		log := newLogger().Named("config")
		defer log.Sync()

		if _, err := updateConfig(func(c *config.Config) error {
			c.SetAPIKey(provider, key)
			return nil
		}); err != nil {
			return err
		}
		log.Info("API key saved", zap.String("provider", provider))
		return nil
	},
}

var setHostCmd = &cobra.Command{
	Use:   "set-host",
	Short: "Set the server address of a self-hosted provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		host, _ := cmd.Flags().GetString("host")
		provider = strings.ToLower(strings.TrimSpace(provider))
		if host == "" {
			return fmt.Errorf("--host is required")
		}

		log := newLogger().Named("config")
		defer log.Sync()

		if _, err := updateConfig(func(c *config.Config) error {
			c.SetHost(provider, host)
			return nil
		}); err != nil {
			return err
		}
		log.Info("host saved", zap.String("provider", provider), zap.String("host", host))
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Select the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		log := newLogger().Named("config")
		defer log.Sync()

		cfg, err := updateConfig(func(c *config.Config) error {
			if provider != "" {
				c.SelectedProvider = strings.ToLower(provider)
			}
			if model != "" {
				c.SelectedModel = model
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info("active model updated",
			zap.String("provider", cfg.SelectedProvider),
			zap.String("model", cfg.SelectedModel))
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the models offered by the selected provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg := fileCfg.WithEnv()
		provider := cfg.SelectedProvider
		if provider == "" {
			return fmt.Errorf("no provider selected, run 'bugbounty-agent setup'")
		}

		log := newLogger().Named("config")
		defer log.Sync()
		log.Debug("fetching models", zap.String("provider", provider))

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		p, err := adk.NewProvider(ctx, provider, cfg.GetAPIKey(provider), cfg.GetHost(provider), cfg.SelectedModel)
		if err != nil {
			return fmt.Errorf("init %s: %w", provider, err)
		}
		if closer, ok := p.(interface{ Close() }); ok {
			defer closer.Close()
		}

		models, err := p.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("list %s models: %w", provider, err)
		}
		log.Info("models fetched", zap.String("provider", provider), zap.Int("count", len(models)))

		out := cmd.OutOrStdout()
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "gemini", "Provider (gemini)")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setHostCmd.Flags().StringP("provider", "p", "ollama", "Provider (ollama)")
	setHostCmd.Flags().String("host", "", "Server address, e.g. http://localhost:11434")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider (gemini, ollama)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd, setHostCmd, setModelCmd, listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
