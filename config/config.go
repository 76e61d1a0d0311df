package config

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thisismy-go/thisismy/resolver"
)

// Config holds every run option, resolved once at startup from the sibling
// thisismy.json defaults file, environment variables, and CLI flags (in
// ascending precedence). It is passed by reference into the resolution and
// watch components; nothing reads configuration through globals afterwards.
type Config struct {
	// Tokens pre-populates the resource patterns when none are given on the
	// command line.
	Tokens []string `mapstructure:"tokens"`
	// Recursive rewrites patterns to search all subdirectories.
	Recursive bool `mapstructure:"recursive"`
	// Greedy disables all ignore filtering.
	Greedy bool `mapstructure:"greedy"`
	// Watch keeps running and re-confirms on detected changes.
	Watch bool `mapstructure:"watch"`
	// Interval is the remote poll period in whole minutes, minimum 1.
	Interval int `mapstructure:"interval"`
	// MaxSize is the size ceiling expression: "<number>[kb|mb]" or "no".
	MaxSize string `mapstructure:"maxsize"`
	// Silent suppresses warnings and prompt text.
	Silent bool `mapstructure:"silent"`
	// Debug enables per-path diagnostic output.
	Debug bool `mapstructure:"debug"`
	// Output is the destination file; empty writes to stdout.
	Output string `mapstructure:"output"`
	// Markdown wraps file contents in fenced code blocks.
	Markdown bool `mapstructure:"markdown"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Interval: 5,
	MaxSize:  "500kb",
}

// DefaultMaxSizeBytes is the ceiling used when the size expression is invalid.
const DefaultMaxSizeBytes int64 = 500 * 1024

var sizeExpr = regexp.MustCompile(`(?i)^(\d+)\s*(kb|mb)?$`)

// LoadConfigs resolves the final configuration from the defaults file,
// environment, and flags. A missing thisismy.json is not an error.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix("THISISMY")
	viper.AutomaticEnv()

	viper.SetConfigName("thisismy")
	viper.SetConfigType("json")
	viper.AddConfigPath(cwd)
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	bindFlags(rootCmd)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Interval < 1 {
		config.Interval = DefaultConfig.Interval
	}

	return &config, nil
}

// ParseMaxSize converts a size ceiling expression to bytes.
//
// Accepted forms: "500kb", "2mb", "1024", and the literal "no" for no limit.
// Invalid expressions fall back to DefaultMaxSizeBytes; ok reports whether
// the expression was understood.
func ParseMaxSize(expr string) (bytes int64, ok bool) {
	trimmed := strings.ToLower(strings.TrimSpace(expr))
	if trimmed == "no" {
		return resolver.NoLimit, true
	}

	m := sizeExpr.FindStringSubmatch(trimmed)
	if m == nil {
		return DefaultMaxSizeBytes, false
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return DefaultMaxSizeBytes, false
	}

	switch m[2] {
	case "kb":
		return n * 1024, true
	case "mb":
		return n * 1024 * 1024, true
	default:
		return n, true
	}
}

func setDefaults() {
	viper.SetDefault("tokens", DefaultConfig.Tokens)
	viper.SetDefault("recursive", DefaultConfig.Recursive)
	viper.SetDefault("greedy", DefaultConfig.Greedy)
	viper.SetDefault("watch", DefaultConfig.Watch)
	viper.SetDefault("interval", DefaultConfig.Interval)
	viper.SetDefault("maxsize", DefaultConfig.MaxSize)
	viper.SetDefault("silent", DefaultConfig.Silent)
	viper.SetDefault("debug", DefaultConfig.Debug)
	viper.SetDefault("output", DefaultConfig.Output)
	viper.SetDefault("markdown", DefaultConfig.Markdown)
}

func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("recursive", rootCmd.PersistentFlags().Lookup("recursive"))
	_ = viper.BindPFlag("greedy", rootCmd.PersistentFlags().Lookup("greedy"))
	_ = viper.BindPFlag("watch", rootCmd.PersistentFlags().Lookup("watch"))
	_ = viper.BindPFlag("interval", rootCmd.PersistentFlags().Lookup("interval"))
	_ = viper.BindPFlag("maxsize", rootCmd.PersistentFlags().Lookup("maxsize"))
	_ = viper.BindPFlag("silent", rootCmd.PersistentFlags().Lookup("silent"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("markdown", rootCmd.PersistentFlags().Lookup("markdown"))
}

// InitFlags registers the CLI flags on the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolP("recursive", "r", DefaultConfig.Recursive, "Search all subdirectories when expanding patterns.")
	rootCmd.PersistentFlags().BoolP("greedy", "g", DefaultConfig.Greedy, "Disable all ignore filtering.")
	rootCmd.PersistentFlags().BoolP("watch", "w", DefaultConfig.Watch, "Watch resources for changes and confirm re-runs.")
	rootCmd.PersistentFlags().IntP("interval", "i", DefaultConfig.Interval, "Remote poll interval in whole minutes (minimum 1).")
	rootCmd.PersistentFlags().StringP("maxsize", "m", DefaultConfig.MaxSize, "Size ceiling per file, e.g. '500kb', '2mb', or 'no' for unlimited.")
	rootCmd.PersistentFlags().BoolP("silent", "s", DefaultConfig.Silent, "Suppress warnings and prompt text.")
	rootCmd.PersistentFlags().BoolP("debug", "d", DefaultConfig.Debug, "Print per-path diagnostic output.")
	rootCmd.PersistentFlags().StringP("output", "o", DefaultConfig.Output, "Write the aggregated output to a file instead of stdout.")
	rootCmd.PersistentFlags().Bool("markdown", DefaultConfig.Markdown, "Wrap file contents in fenced code blocks.")
}
