package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB          DBConfig
	Server      ServerConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	LLM         LLMConfig
	Logger      LoggerConfig
	Auth        AuthConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	// Driver is "oracle" (go-ora) or "godror".
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// LLMConfig selects the chat model backing the tutor endpoints.
type LLMConfig struct {
	Provider  string // ollama, openai, anthropic, gemini
	Model     string
	ServerURL string // ollama only
	BaseURL   string // OpenAI-compatible endpoints such as Together
	APIKey    string
	Timeout   time.Duration
}

type LoggerConfig struct {
	Level  string
	Env    string
	Output string // stdout, stderr or a file path
}

// AuthConfig holds the sign-in throttling policy.
type AuthConfig struct {
	MaxFailedLogins int
	LockoutWindow   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 180)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("db.driver", "oracle")
	v.SetDefault("jwt.access_token_ttl", "1h")
	v.SetDefault("jwt.refresh_token_ttl", "168h")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "mistralai/Mixtral-8x7B-Instruct-v0.1")
	v.SetDefault("llm.base_url", "https://api.together.xyz/v1")
	v.SetDefault("llm.timeout", "150s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("auth.max_failed_logins", 5)
	v.SetDefault("auth.lockout_window", "15m")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configFile := v.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	config := &Config{
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			AccessTokenTTL:  v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt.refresh_token_ttl"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     v.GetString("google_oauth.client_id"),
			ClientSecret: v.GetString("google_oauth.client_secret"),
			RedirectURL:  v.GetString("google_oauth.redirect_url"),
		},
		LLM: LLMConfig{
			Provider:  v.GetString("llm.provider"),
			Model:     v.GetString("llm.model"),
			ServerURL: v.GetString("llm.server_url"),
			BaseURL:   v.GetString("llm.base_url"),
			APIKey:    v.GetString("llm.api_key"),
			Timeout:   v.GetDuration("llm.timeout"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: v.GetString("logger.output"),
		},
		Auth: AuthConfig{
			MaxFailedLogins: v.GetInt("auth.max_failed_logins"),
			LockoutWindow:   v.GetDuration("auth.lockout_window"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("DB_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.DB.Port)
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		config.DB.Driver = driver
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Server.Port)
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if serverURL := os.Getenv("LLM_SERVER"); serverURL != "" {
		config.LLM.ServerURL = serverURL
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		config.GoogleOAuth.ClientID = clientID
	}
	if clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET"); clientSecret != "" {
		config.GoogleOAuth.ClientSecret = clientSecret
	}

	return config
}

func (c *Config) GetDSN() string {
	if c.DB.Driver == "godror" {
		// godror uses the EZConnect syntax
		return fmt.Sprintf(`user="%s" password="%s" connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIBaseURL      string
	CredentialsPath string
	Logger          LoggerConfig
}

// LoadClientConfig reads tutor.yaml from the working directory or the user
// config dir. A missing file is not an error.
func LoadClientConfig() (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigName("tutor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "onyx"))
	}

	v.SetDefault("api.base_url", "http://localhost:8090")
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stderr")
	v.SetEnvPrefix("ONYX")
	_ = v.BindEnv("api.base_url", "ONYX_API_URL")
	_ = v.BindEnv("credentials", "ONYX_CREDENTIALS")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read client config: %w", err)
		}
	}

	credentials := v.GetString("credentials")
	if credentials == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		credentials = filepath.Join(dir, "onyx", "credentials.json")
	}

	return &ClientConfig{
		APIBaseURL:      v.GetString("api.base_url"),
		CredentialsPath: credentials,
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: v.GetString("logger.output"),
		},
	}, nil
}
