package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and passed to the components that need
// it; nothing reads the environment after Parse returns.
type Config struct {
	Addr      string
	Host      string
	Port      int
	DBPath    string
	SecretKey string
	ServerURL string
	CacheSize int
	Debug     bool
	Accounts  map[string]string
}

const (
	defaultPort      = 5000
	defaultCacheSize = -256000
)

func Parse() (cfg Config, err error) {
	// a missing .env is fine, the real environment still applies
	godotenv.Load()

	cfg.Host = envOr("SERVER_HOST", "0.0.0.0")
	cfg.Port, err = envInt("SERVER_PORT", defaultPort)
	if err != nil {
		return
	}
	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	cfg.DBPath = envOr("DB_PATH", "survey.db")
	cfg.SecretKey = envOr("SECRET_KEY", "change_this_secret_for_prod")
	cfg.ServerURL = os.Getenv("SERVER_URL")
	cfg.CacheSize, err = envInt("SQLITE_CACHE_SIZE", defaultCacheSize)
	if err != nil {
		return
	}
	cfg.Debug = strings.EqualFold(os.Getenv("DEBUG"), "true")

	cfg.Accounts = parseAccounts(
		os.Getenv("ADMIN_ACCOUNTS"),
		envOr("ADMIN_USER", "admin"),
		envOr("ADMIN_PASS", "admin"),
	)
	return
}

// parseAccounts reads a comma-separated list of user:pass pairs; entries
// without a colon are skipped. An empty list falls back to the single
// default account.
func parseAccounts(accounts, defaultUser, defaultPass string) map[string]string {
	parsed := map[string]string{}
	for _, account := range strings.Split(accounts, ",") {
		account = strings.TrimSpace(account)
		user, pass, ok := strings.Cut(account, ":")
		if !ok {
			continue
		}
		parsed[strings.TrimSpace(user)] = strings.TrimSpace(pass)
	}
	if len(parsed) == 0 {
		parsed[defaultUser] = defaultPass
	}
	return parsed
}

// LocalURL is the loopback address of the running server.
func (cfg Config) LocalURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
}

// LanURL is the server URL on the local network, falling back to loopback
// when the interface address cannot be discovered.
func (cfg Config) LanURL() string {
	ip, err := outboundIP()
	if err != nil {
		return cfg.LocalURL()
	}
	if cfg.Port == 80 {
		return "http://" + ip
	}
	return fmt.Sprintf("http://%s:%d", ip, cfg.Port)
}

// AdvertisedURL resolves the externally reachable base URL: the explicit
// SERVER_URL override wins, then the requesting host if known, then the
// LAN address.
func (cfg Config) AdvertisedURL(requestHost string) string {
	if cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	if requestHost != "" {
		if strings.HasPrefix(requestHost, "http") {
			return requestHost
		}
		return "http://" + requestHost
	}
	return cfg.LanURL()
}

// outboundIP discovers the preferred interface address by dialing out;
// UDP, so no packet is actually sent.
func outboundIP() (string, error) {
	conn, err := net.DialTimeout("udp", "8.8.8.8:80", time.Second)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
