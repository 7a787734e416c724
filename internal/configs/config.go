package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

// MolitConfig - реестр сделок МОЛИТ (공공데이터포털).
type MolitConfig struct {
	URL        string
	ServiceKey string
	PageSize   int
}

// VWorldConfig - геокодер VWorld.
type VWorldConfig struct {
	URL    string
	APIKey string
}

// GeocodeConfig - параметры пайплайна геокодирования.
type GeocodeConfig struct {
	TimeoutMs int // жесткий таймаут одного запроса
	BatchSize int // размер чанка пакетного геокодирования
}

type SearchConfig struct {
	VisibleRegionLimit int // максимум регионов в поиске по видимой области
}

type StdoutLogConfig struct {
	Level string `mapstructure:"STDOUT_LOG_LEVEL" default:"debug"` // По умолчанию DEBUG
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string `mapstructure:"FLUENTBIT_LOG_LEVEL" default:"info"` // По умолчанию INFO
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	Rest         RESTconfig
	Molit        MolitConfig
	VWorld       VWorldConfig
	Geocode      GeocodeConfig
	Search       SearchConfig
	FluentBit    FluentBitConfig
	AppName      string
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		// .env опционален: в контейнере все приходит из окружения
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = os.Getenv("APP_NAME")
	if cfg.AppName == "" {
		cfg.AppName = "apt-trade-map"
	}

	// Читаем конфигурацию для REST
	cfg.Rest.PORT = os.Getenv("PORT")
	if cfg.Rest.PORT == "" {
		cfg.Rest.PORT = "5000"
	}

	origins := getEnvAsString("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.Rest.AllowedOrigins = append(cfg.Rest.AllowedOrigins, origin)
		}
	}

	cfg.Molit.URL = getEnvAsString("MOLIT_API_URL",
		"https://apis.data.go.kr/1613000/RTMSDataSvcAptTradeDev/getRTMSDataSvcAptTradeDev")
	cfg.Molit.ServiceKey = os.Getenv("MOLIT_SERVICE_KEY")
	if cfg.Molit.ServiceKey == "" {
		return nil, fmt.Errorf("MOLIT_SERVICE_KEY environment variable is required")
	}
	cfg.Molit.PageSize = getEnvAsInt("MOLIT_PAGE_SIZE", 1000)

	cfg.VWorld.URL = getEnvAsString("VWORLD_API_URL", "https://api.vworld.kr/req/search")
	cfg.VWorld.APIKey = os.Getenv("VWORLD_API_KEY")
	if cfg.VWorld.APIKey == "" {
		return nil, fmt.Errorf("VWORLD_API_KEY environment variable is required")
	}

	cfg.Geocode.TimeoutMs = getEnvAsInt("GEOCODE_TIMEOUT_MS", 1500)
	cfg.Geocode.BatchSize = getEnvAsInt("GEOCODE_BATCH_SIZE", 10)

	cfg.Search.VisibleRegionLimit = getEnvAsInt("VISIBLE_REGION_LIMIT", 20)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
