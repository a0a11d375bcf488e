package config

import (
	"log"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// defaults concentra os valores padrão; também serve de fallback quando
// uma variável numérica vem malformada do ambiente.
var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"ENV":                     "development",
	"LOG_LEVEL":               "info",
	"DB_TIMEOUT_SEC":          5,
	"REDIS_ADDR":              "localhost:6379",
	"CACHE_TTL_SEC":           300,
	"JWT_EXPIRY_MIN":          60,
	"RATE_LIMIT_MAX_REQUESTS": 100,
	"RATE_LIMIT_PERIOD_MIN":   1,
	"LEDGER_STRICT_ORPHANS":   false,
}

// Config armazena todas as configurações do serviço de inventário da governança.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Ledger de estoque: quando true, um item órfão durante a reversão
	// (update/delete) falha a operação inteira em vez de apenas registrar aviso.
	LedgerStrictOrphans bool
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env (se existir) já deve ter sido carregado pelo main via godotenv.
func LoadConfig() *Config {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	cfg := &Config{
		// 1. Geral
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetString garante que a aplicação não inicie sem credenciais de DB
		DatabaseURL: mustGetString(v, "DATABASE_URL"),
		DBTimeout:   getSeconds(v, "DB_TIMEOUT_SEC"),

		// 3. Cache (Redis)
		RedisAddr: v.GetString("REDIS_ADDR"),
		CacheTTL:  getSeconds(v, "CACHE_TTL_SEC"),

		// 4. Segurança (JWT)
		JWTSecretKey: mustGetString(v, "JWT_SECRET_KEY"),
		TokenExpiry:  time.Duration(getInt(v, "JWT_EXPIRY_MIN")) * time.Minute,

		// 5. Rate Limiting
		RateLimitMaxRequests: getInt(v, "RATE_LIMIT_MAX_REQUESTS"),
		RateLimitPeriod:      time.Duration(getInt(v, "RATE_LIMIT_PERIOD_MIN")) * time.Minute,

		// 6. Ledger
		LedgerStrictOrphans: v.GetBool("LEDGER_STRICT_ORPHANS"),
	}

	return cfg
}

// LoadDatabaseURL lê apenas DATABASE_URL. Usado pelo cmd/migrate, que não precisa do JWT.
func LoadDatabaseURL() string {
	v := viper.New()
	v.AutomaticEnv()
	return mustGetString(v, "DATABASE_URL")
}

// mustGetString lê a chave obrigatória, fatal se não estiver presente.
func mustGetString(v *viper.Viper, key string) string {
	value := v.GetString(key)
	if value == "" {
		log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	}
	return value
}

// getInt lê uma chave numérica; valores inválidos caem no padrão registrado.
func getInt(v *viper.Viper, key string) int {
	value, err := cast.ToIntE(v.Get(key))
	if err != nil {
		def := cast.ToInt(defaults[key])
		log.Printf("⚠️ Aviso: Valor de %s ('%v') não é um número inteiro válido. Usando padrão (%d).", key, v.Get(key), def)
		return def
	}
	return value
}

// getSeconds lê uma chave em segundos e devolve como time.Duration.
func getSeconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(getInt(v, key)) * time.Second
}
