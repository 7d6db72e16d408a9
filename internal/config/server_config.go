package config

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EchoServer configures the HTTP layer
type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableTrailingSlashMiddleware  bool
}

// LoggerServer configures zerolog
type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogRequestHeader   bool
	LogResponseBody    bool
	PrettyPrintConsole bool
}

// ThorServer configures access to VeChainThor nodes
type ThorServer struct {
	// NodeURLs are tried in order on request failure
	NodeURLs []string
	// Network selects the factory and chain defaults, e.g. "main" or "test"
	Network        string
	BlockInterval  time.Duration
	ReceiptTimeout time.Duration
}

// SmartAccountServer configures factory contracts per network
type SmartAccountServer struct {
	// FactoryAddresses maps network name to factory contract address
	FactoryAddresses map[string]string
}

// AuthServer configures the authentication providers
type AuthServer struct {
	// EnabledMethods whitelists login methods; empty disables everything
	EnabledMethods []string
	// EmbeddedServiceURL is the wallet service backing embedded logins
	EmbeddedServiceURL string
	CeremonyTimeout    time.Duration
	// PartnerAppsJSON is a JSON array of cross-app partner descriptors
	PartnerAppsJSON string
	// CacheTTL bounds the persisted cross-app connection entry
	CacheTTL time.Duration
}

// FeeDelegationServer configures the delegator client
type FeeDelegationServer struct {
	DelegatorURL     string
	Speed            string
	EstimateCacheTTL time.Duration
}

// StoreServer configures the persistence layer
type StoreServer struct {
	// Dir is the badger directory; empty selects the in-memory store
	Dir string
}

// ManagementServer configures the internal probe endpoints
type ManagementServer struct {
	Secret           string
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

// Server is the aggregated service configuration, read once from ENV
type Server struct {
	Echo          EchoServer
	Logger        LoggerServer
	Thor          ThorServer
	SmartAccount  SmartAccountServer
	Auth          AuthServer
	FeeDelegation FeeDelegationServer
	Store         StoreServer
	Management    ManagementServer
}

var (
	configOnce sync.Once
	env        *viper.Viper
)

// loadEnv binds the WALLETKIT env namespace once per process
func loadEnv() *viper.Viper {
	configOnce.Do(func() {
		env = viper.New()
		env.SetEnvPrefix("WALLETKIT")
		env.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		env.AutomaticEnv()

		env.SetDefault("server.listen_address", ":8080")
		env.SetDefault("server.hide_internal_errors", true)
		env.SetDefault("logger.level", "info")
		env.SetDefault("logger.request_level", "debug")
		env.SetDefault("logger.pretty_print_console", false)
		env.SetDefault("thor.node_urls", "https://mainnet.vechain.org")
		env.SetDefault("thor.network", "main")
		env.SetDefault("thor.block_interval", 10*time.Second)
		env.SetDefault("thor.receipt_timeout", 60*time.Second)
		env.SetDefault("auth.enabled_methods", "wallet,email,oauth,passkey,ecosystem")
		env.SetDefault("auth.ceremony_timeout", 5*time.Minute)
		env.SetDefault("auth.cache_ttl", 24*time.Hour)
		env.SetDefault("feedelegation.delegator_url", "https://sponsor.vechain.energy")
		env.SetDefault("feedelegation.speed", "regular")
		env.SetDefault("feedelegation.estimate_cache_ttl", 30*time.Second)
		env.SetDefault("management.readiness_timeout", 4*time.Second)
		env.SetDefault("management.liveness_timeout", 9*time.Second)
	})

	return env
}

// DefaultServiceConfigFromEnv returns the full service configuration from
// the WALLETKIT_* environment
func DefaultServiceConfigFromEnv() Server {
	v := loadEnv()

	return Server{
		Echo: EchoServer{
			Debug:                          v.GetBool("server.debug"),
			ListenAddress:                  v.GetString("server.listen_address"),
			HideInternalServerErrorDetails: v.GetBool("server.hide_internal_errors"),
			EnableCORSMiddleware:           v.GetBool("server.enable_cors"),
			EnableLoggerMiddleware:         true,
			EnableRecoverMiddleware:        true,
			EnableRequestIDMiddleware:      true,
			EnableTrailingSlashMiddleware:  true,
		},
		Logger: LoggerServer{
			Level:              parseLevel(v.GetString("logger.level"), zerolog.InfoLevel),
			RequestLevel:       parseLevel(v.GetString("logger.request_level"), zerolog.DebugLevel),
			LogRequestBody:     v.GetBool("logger.log_request_body"),
			LogRequestHeader:   v.GetBool("logger.log_request_header"),
			LogResponseBody:    v.GetBool("logger.log_response_body"),
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
		Thor: ThorServer{
			NodeURLs:       splitList(v.GetString("thor.node_urls")),
			Network:        v.GetString("thor.network"),
			BlockInterval:  v.GetDuration("thor.block_interval"),
			ReceiptTimeout: v.GetDuration("thor.receipt_timeout"),
		},
		SmartAccount: SmartAccountServer{
			FactoryAddresses: factoryDefaults(v.GetString("smartaccount.factories")),
		},
		Auth: AuthServer{
			EnabledMethods:     splitList(v.GetString("auth.enabled_methods")),
			EmbeddedServiceURL: v.GetString("auth.embedded_service_url"),
			CeremonyTimeout:    v.GetDuration("auth.ceremony_timeout"),
			PartnerAppsJSON:    v.GetString("auth.partner_apps"),
			CacheTTL:           v.GetDuration("auth.cache_ttl"),
		},
		FeeDelegation: FeeDelegationServer{
			DelegatorURL:     v.GetString("feedelegation.delegator_url"),
			Speed:            v.GetString("feedelegation.speed"),
			EstimateCacheTTL: v.GetDuration("feedelegation.estimate_cache_ttl"),
		},
		Store: StoreServer{
			Dir: v.GetString("store.dir"),
		},
		Management: ManagementServer{
			Secret:           v.GetString("management.secret"),
			ReadinessTimeout: v.GetDuration("management.readiness_timeout"),
			LivenessTimeout:  v.GetDuration("management.liveness_timeout"),
		},
	}
}

func parseLevel(raw string, fallback zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return fallback
	}
	return level
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// factoryDefaults parses "network=address" pairs, falling back to the
// published factory deployments
func factoryDefaults(raw string) map[string]string {
	factories := map[string]string{
		"main": "0xC06Ad8573022e2BE416CA89DA47E8c592971679A",
		"test": "0x713b908Bcf77f3E00EFEf328E50b657a1A23AeaF",
	}

	for _, pair := range splitList(raw) {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		factories[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return factories
}
