package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// HerepayConfig holds the processor credentials. PrivateKey signs outbound
// requests and authenticates inbound reconciliation events; APIKey and
// SecretKey ride as headers on every processor call.
type HerepayConfig struct {
	Environment string `mapstructure:"environment"` // sandbox or production
	APIKey      string `mapstructure:"api_key"`
	SecretKey   string `mapstructure:"secret_key"`
	PrivateKey  string `mapstructure:"private_key"`
}

// BaseURL returns the processor host for the configured environment.
func (h *HerepayConfig) BaseURL() string {
	if h.Environment == "production" {
		return "https://app.herepay.org"
	}
	return "https://uat.herepay.org"
}

// HasAPICredentials reports whether the channel/status endpoints can be called.
func (h *HerepayConfig) HasAPICredentials() bool {
	return h.APIKey != "" && h.SecretKey != ""
}

// Complete reports whether initiation is possible (all three keys set).
func (h *HerepayConfig) Complete() bool {
	return h.HasAPICredentials() && h.PrivateKey != ""
}

// CheckoutConfig carries the shopper-facing destinations the redirect
// handler sends browsers back to, all on the host storefront.
type CheckoutConfig struct {
	ThankYouURL     string `mapstructure:"thank_you_url"`
	RetryPaymentURL string `mapstructure:"retry_payment_url"`
	CartURL         string `mapstructure:"cart_url"`
	OrderViewURL    string `mapstructure:"order_view_url"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// Enabled reports whether receipt mail should be sent at all.
func (e *EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.FromAddress != ""
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
