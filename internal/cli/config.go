package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Aletheia configuration",
	Long: `Manage Aletheia configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (ALETHEIA_*)
3. Config file (~/.aletheia/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Display the effective configuration after layering defaults, config file, and environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Never print credentials.
		cfg.News.APIKey = redact(cfg.News.APIKey)
		cfg.LLM.APIKey = redact(cfg.LLM.APIKey)
		cfg.Cache.RedisPassword = redact(cfg.Cache.RedisPassword)

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (ALETHEIA_*, NEWS_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY)")
		fmt.Println("  3. Config file (~/.aletheia/config.yaml)")
		fmt.Println("  4. Defaults")

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.aletheia/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.aletheia"
		configPath := configDir + "/config.yaml"

		if _, statErr := os.Stat(configPath); statErr == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'aletheia config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  aletheia config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "<redacted>"
}

// defaultConfigTemplate mirrors model.DefaultConfig. Durations accept Go
// duration strings ("10s", "24h").
const defaultConfigTemplate = `# Aletheia Configuration File
# See https://github.com/ppiankov/aletheia for full documentation
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (ALETHEIA_*)
#   3. This config file
#   4. Built-in defaults

server:
  host: 0.0.0.0
  port: 8080
  read_timeout: 10s
  write_timeout: 30s
  shutdown_timeout: 10s

news:
  # api_key: set NEWS_API_KEY instead; empty key disables search
  base_url: https://newsapi.org/v2
  language: en
  window_days: 7
  limit: 5
  timeout: 5s
  requests_per_minute: 60
  rank_sources: true
  enrich:
    enabled: false
    timeout: 8s
    workers: 3
    user_agent: "Aletheia/0.2 (+https://github.com/ppiankov/aletheia)"
    max_body_bytes: 1000000

llm:
  # provider: openai, anthropic, ollama, or empty to disable fallback analysis
  provider: ""
  model: ""
  max_tokens: 600
  temperature: 0.2
  timeout: 30s

cache:
  # backend: memory, redis, or layered (memory in front of redis)
  backend: memory
  ttl: 24h
  redis_addr: localhost:6379
  redis_db: 0

verify:
  analyze_timeout: 10s
  expand_query: false

log:
  debug: false

# API keys belong in environment variables, not in this file:
#   export NEWS_API_KEY=...
#   export OPENAI_API_KEY=sk-...
#   export ANTHROPIC_API_KEY=sk-ant-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
