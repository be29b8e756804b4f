package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resume-ranker"
	envPrefix = "RESUME_RANKER"
)

type Config struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	Artifacts *ArtifactsConfig `mapstructure:"artifacts"`
	Ranking   *RankingConfig   `mapstructure:"ranking"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	MaxUploadBytes  int64         `mapstructure:"max-upload-bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn" json:"-"`
	DSNFile  string `mapstructure:"dsn-file"`
	SeedFile string `mapstructure:"seed-file"`
}

type ArtifactsConfig struct {
	Driver string    `mapstructure:"driver"`
	Dir    string    `mapstructure:"dir"`
	S3     *S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	Prefix        string `mapstructure:"prefix"`
	AccessKey     string `mapstructure:"access-key" json:"-"`
	AccessKeyFile string `mapstructure:"access-key-file"`
	SecretKey     string `mapstructure:"secret-key" json:"-"`
	SecretKeyFile string `mapstructure:"secret-key-file"`
}

type RankingConfig struct {
	Workers           int      `mapstructure:"workers"`
	ExcludeCandidates []string `mapstructure:"exclude-candidates"`
}

type AIConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	Provider           string        `mapstructure:"provider"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RecommendationPool int           `mapstructure:"recommendation-pool"`
	Gemini             *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-ranker extracts résumé text, scores it against job skills and ranks applicants",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.max-upload-bytes", 5<<20)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.dsn-file", "")
	v.SetDefault("storage.seed-file", "")

	v.SetDefault("artifacts.driver", "fs")
	v.SetDefault("artifacts.dir", "uploads")
	v.SetDefault("artifacts.s3.bucket", "")
	v.SetDefault("artifacts.s3.region", "")
	v.SetDefault("artifacts.s3.endpoint", "")
	v.SetDefault("artifacts.s3.prefix", "")
	v.SetDefault("artifacts.s3.access-key", "")
	v.SetDefault("artifacts.s3.access-key-file", "")
	v.SetDefault("artifacts.s3.secret-key", "")
	v.SetDefault("artifacts.s3.secret-key-file", "")

	v.SetDefault("ranking.workers", 0)
	v.SetDefault("ranking.exclude-candidates", []string{})

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.recommendation-pool", 25)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	bindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Defaults and environment are enough unless a file was asked for explicitly.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return unmarshalConfig(viper.GetViper())
}

func unmarshalConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
