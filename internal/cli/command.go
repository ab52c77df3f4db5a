package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SimonOfHH/deepl-helper/internal"
	"github.com/SimonOfHH/deepl-helper/internal/provider"
)

// Placeholders shipped in launcher scripts; they count as not given.
const (
	apiKeyPlaceholder   = "<DeepL API Key>"
	choicePlaceholder   = "<Input Selection[optional]>"
	filenamePlaceholder = "<Filename[optional]>"
)

// flagKeys maps flag names to their viper configuration keys
var flagKeys = map[string]string{
	"provider":      "provider.name",
	"model":         "provider.model",
	"glossary-db":   "provider.glossary_db",
	"retries":       "provider.retries",
	"timeout":       "provider.timeout",
	"source-lang":   "translation.source_lang",
	"target-lang":   "translation.target_lang",
	"source-column": "translation.source_column",
	"result-column": "translation.result_column",
	"batch-size":    "translation.batch_size",
	"formality":     "translation.formality",
	"glossary-name": "glossary.name",
	"backup":        "translation.backup",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deepl-helper <apiKey> [menuChoice] [filename]",
		Short: "Spreadsheet batch translation with glossaries",
		Long: `deepl-helper translates a column of an Excel workbook with DeepL and
manages the glossaries used for it.

Without a menu choice an interactive menu is shown:
  S  show glossaries and their entries
  C  create a glossary from a two-column workbook
  D  delete a glossary
  T  translate a workbook
  Q  quit

The API key can also come from DEEPL_AUTH_KEY (OPENAI_API_KEY or
GEMINI_API_KEY for the other providers) or the config file.

Examples:
  deepl-helper <key>                       # interactive menu
  deepl-helper <key> T texts.xlsx          # translate texts.xlsx
  deepl-helper <key> C terms.xlsx          # create a glossary
  deepl-helper --provider openai <key> T texts.xlsx`,
		Args:    cobra.RangeArgs(0, 3),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.deepl-helper.yaml)")

	// Local flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: "+strings.Join(provider.Names, ", "))
	cmd.Flags().BoolVar(&flags.Backup, "backup", false, "Copy the workbook into ./archive before translating it")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List the OpenAI chat models available for the current API key")

	// Translation flags
	cmd.Flags().StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Source language code")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Target language code (de implies formal register)")
	cmd.Flags().IntVar(&flags.SourceColumn, "source-column", flags.SourceColumn, "Column holding the source text (0 = A)")
	cmd.Flags().IntVar(&flags.ResultColumn, "result-column", flags.ResultColumn, "Column receiving the translation (0 = A)")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", flags.BatchSize, "Rows per provider call")
	cmd.Flags().StringVar(&flags.Formality, "formality", "", "Formality: more, less, prefer_more, prefer_less (default depends on target language)")
	cmd.Flags().StringVar(&flags.GlossaryName, "glossary-name", flags.GlossaryName, "Name of glossaries created with C")

	// Provider flags
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model for the openai and gemini providers")
	cmd.Flags().StringVar(&flags.GlossaryDB, "glossary-db", flags.GlossaryDB, "Local glossary database for the openai and gemini providers")
	cmd.Flags().IntVar(&flags.Retries, "retries", flags.Retries, "Retries on rate limits and server errors (0 disables)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout per provider call (0 disables)")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	for name, key := range flagKeys {
		viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".deepl-helper" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".deepl-helper")
	}

	// Environment variables: DEEPLHELPER_TRANSLATION_BATCH_SIZE etc.
	viper.SetEnvPrefix("DEEPLHELPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies configured values into flags the user did not set on
// the command line.
func ApplyConfig(cmd *cobra.Command, flags *Flags) {
	set := func(name string, apply func(key string)) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return
		}
		if key := flagKeys[name]; viper.IsSet(key) {
			apply(key)
		}
	}

	set("provider", func(k string) { flags.Provider = viper.GetString(k) })
	set("model", func(k string) { flags.Model = viper.GetString(k) })
	set("glossary-db", func(k string) { flags.GlossaryDB = viper.GetString(k) })
	set("retries", func(k string) { flags.Retries = viper.GetInt(k) })
	set("timeout", func(k string) { flags.Timeout = viper.GetDuration(k) })
	set("source-lang", func(k string) { flags.SourceLang = viper.GetString(k) })
	set("target-lang", func(k string) { flags.TargetLang = viper.GetString(k) })
	set("source-column", func(k string) { flags.SourceColumn = viper.GetInt(k) })
	set("result-column", func(k string) { flags.ResultColumn = viper.GetInt(k) })
	set("batch-size", func(k string) { flags.BatchSize = viper.GetInt(k) })
	set("formality", func(k string) { flags.Formality = viper.GetString(k) })
	set("glossary-name", func(k string) { flags.GlossaryName = viper.GetString(k) })
	set("backup", func(k string) { flags.Backup = viper.GetBool(k) })
	set("log-level", func(k string) { flags.LogLevel = viper.GetString(k) })
	set("log-format", func(k string) { flags.LogFormat = viper.GetString(k) })
}

// Args are the positional arguments of the root command
type Args struct {
	APIKey   string
	Choice   string
	Filename string
}

// ParseArgs reads <apiKey> [menuChoice] [filename]. Empty values and the
// launcher placeholders are treated as missing.
func ParseArgs(args []string) Args {
	get := func(i int, placeholder string) string {
		if i >= len(args) {
			return ""
		}
		v := strings.TrimSpace(args[i])
		if v == placeholder {
			return ""
		}
		return v
	}

	return Args{
		APIKey:   get(0, apiKeyPlaceholder),
		Choice:   get(1, choicePlaceholder),
		Filename: get(2, filenamePlaceholder),
	}
}

// GetAPIKey returns the key for providerName: the positional argument
// first, then the provider's environment variable, then the config file
// key "<provider>.api_key".
func GetAPIKey(args Args, providerName string) string {
	if args.APIKey != "" {
		return args.APIKey
	}

	// First check environment variable
	if key := os.Getenv(provider.EnvVar(providerName)); key != "" {
		return key
	}

	// Then check config file
	name := strings.ToLower(providerName)
	if name == "" {
		name = "deepl"
	}
	return viper.GetString(name + ".api_key")
}
