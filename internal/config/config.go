package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

type Config struct {
	Listen          string        `yaml:"listen"           env:"SPELLD_LISTEN"           env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SPELLD_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SPELLD_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SPELLD_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Platform overrides the GOOS used for engine quirks.
	Platform       string               `yaml:"platform" env:"SPELLD_PLATFORM"`
	Log            LogConfig            `yaml:"log"`
	Dictionaries   DictionariesConfig   `yaml:"dictionaries"`
	UserDictionary UserDictionaryConfig `yaml:"user_dictionary"`
	Suggest        SuggestConfig        `yaml:"suggest"`
	Detection      DetectionConfig      `yaml:"detection"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"SPELLD_LOG_LEVEL" env-default:"info"`
}

type DictionariesConfig struct {
	Dir             string   `yaml:"dir"              env:"SPELLD_DICTIONARY_DIR"      env-default:"./dictionaries"`
	ArchiveSuffixes []string `yaml:"archive_suffixes" env:"SPELLD_ARCHIVE_SUFFIXES"    env-separator:","`
	// SystemDirs replaces the per-OS defaults when set.
	SystemDirs     []string       `yaml:"system_dirs"     env:"SPELLD_SYSTEM_DIRS"      env-separator:","`
	PreferHunspell bool           `yaml:"prefer_hunspell" env:"SPELLD_PREFER_HUNSPELL"`
	DownloadBase   string         `yaml:"download_base"   env:"SPELLD_DOWNLOAD_BASE"`
	Preload        []string       `yaml:"preload"         env:"SPELLD_PRELOAD"          env-separator:","`
	Bundles        []BundleConfig `yaml:"bundles"`
}

// BundleConfig registers a file (zip bundle or plain word list) as the
// in-memory dictionary for Tag.
type BundleConfig struct {
	Tag  string `yaml:"tag"`
	Path string `yaml:"path"`
}

type UserDictionaryConfig struct {
	Dir           string `yaml:"dir"            env:"SPELLD_USER_DICT_DIR"       env-default:"~/.config/spelld"`
	BootstrapWord string `yaml:"bootstrap_word" env:"SPELLD_BOOTSTRAP_WORD"      env-default:"spelld"`
	// Provider is "file" (default), "sqlite" or "watch".
	Provider  string `yaml:"provider"   env:"SPELLD_USER_DICT_PROVIDER" env-default:"file"`
	SQLite    string `yaml:"sqlite"     env:"SPELLD_USER_DICT_SQLITE"`
	// WatchFile defaults to the user-dictionary.json under Dir.
	WatchFile string `yaml:"watch_file" env:"SPELLD_USER_DICT_WATCH"`
}

type SuggestConfig struct {
	CacheSize int           `yaml:"cache_size" env:"SPELLD_SUGGEST_CACHE_SIZE" env-default:"1024"`
	CacheTTL  time.Duration `yaml:"cache_ttl"  env:"SPELLD_SUGGEST_CACHE_TTL"  env-default:"5m"`
}

type DetectionConfig struct {
	Disabled  bool     `yaml:"disabled"  env:"SPELLD_DETECTION_DISABLED"`
	Whitelist []string `yaml:"whitelist" env:"SPELLD_DETECTION_WHITELIST" env-separator:","`
}

func Default() Config {
	cfg := Config{
		Listen:          ":8080",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Log: LogConfig{
			Level: "info",
		},
		Dictionaries: DictionariesConfig{
			Dir: "./dictionaries",
		},
		UserDictionary: UserDictionaryConfig{
			Dir:           "~/.config/spelld",
			BootstrapWord: "spelld",
			Provider:      "file",
		},
		Suggest: SuggestConfig{
			CacheSize: 1024,
			CacheTTL:  5 * time.Minute,
		},
	}
	_ = cfg.expand()
	return cfg
}

// Load reads path (YAML, JSON or TOML by extension) and then the
// environment; an empty path reads the environment only. Missing values
// take their env-default.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Default(), fmt.Errorf("config: read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.expand(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func (c *Config) expand() error {
	var err error
	if c.Dictionaries.Dir, err = homedir.Expand(c.Dictionaries.Dir); err != nil {
		return err
	}
	if c.UserDictionary.Dir, err = homedir.Expand(c.UserDictionary.Dir); err != nil {
		return err
	}
	if c.UserDictionary.SQLite, err = homedir.Expand(c.UserDictionary.SQLite); err != nil {
		return err
	}
	if c.UserDictionary.WatchFile, err = homedir.Expand(c.UserDictionary.WatchFile); err != nil {
		return err
	}
	for i, d := range c.Dictionaries.SystemDirs {
		if c.Dictionaries.SystemDirs[i], err = homedir.Expand(strings.TrimSpace(d)); err != nil {
			return err
		}
	}
	for i, b := range c.Dictionaries.Bundles {
		if c.Dictionaries.Bundles[i].Path, err = homedir.Expand(b.Path); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Listen) == "" {
		errs = append(errs, errors.New("listen is required"))
	}
	switch c.UserDictionary.Provider {
	case "", "file":
	case "sqlite":
		if c.UserDictionary.SQLite == "" {
			errs = append(errs, errors.New("user_dictionary.sqlite is required for the sqlite provider"))
		}
	case "watch":
	default:
		errs = append(errs, fmt.Errorf("unknown user_dictionary.provider %q", c.UserDictionary.Provider))
	}
	for _, b := range c.Dictionaries.Bundles {
		if strings.TrimSpace(b.Tag) == "" || strings.TrimSpace(b.Path) == "" {
			errs = append(errs, fmt.Errorf("bundle entry needs tag and path (tag %q, path %q)", b.Tag, b.Path))
		}
	}
	if c.Suggest.CacheSize < 0 {
		errs = append(errs, errors.New("suggest.cache_size must not be negative"))
	}
	return errors.Join(errs...)
}
