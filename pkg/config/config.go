package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente .env).
type Config struct {
	App      AppConfig
	DB       DBConfig
	Tenant   TenantConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Razorpay RazorpayConfig
	Plan     PlanConfig
	Mail     MailConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Reminder ReminderConfig
	Log      LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	PublicURL string // URL base usada en enlaces de correos (verificación de email)
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig configuración de la base de datos de control (empresas, usuarios, pagos).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	return c.dsnFor(c.DBName)
}

// DatabaseDSN devuelve el mismo DSN de control pero apuntando a otra base de datos
// (se usa para las bases por empresa).
func (c DBConfig) DatabaseDSN(dbName string) string {
	if c.DatabaseURL != "" {
		u, err := url.Parse(c.DatabaseURL)
		if err == nil {
			u.Path = "/" + dbName
			return u.String()
		}
	}
	return c.dsnFor(dbName)
}

func (c DBConfig) dsnFor(dbName string) string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + dbName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// TenantConfig configuración de las bases de datos por empresa.
type TenantConfig struct {
	DBPrefix    string        // prefijo del nombre de la base: <prefix><codigo en minúsculas>
	MaxConns    int32         // conexiones máximas por pool de empresa
	IdleTTL     time.Duration // un pool sin uso por este tiempo se cierra
	AutoMigrate bool          // aplicar migraciones de tenant al abrir el pool
}

// DatabaseName devuelve el nombre de la base de datos de una empresa.
func (c TenantConfig) DatabaseName(companyCode string) string {
	return c.DBPrefix + strings.ToLower(companyCode)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RazorpayConfig credenciales del proveedor de pagos.
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string // firma del checkout (orderId|paymentId)
	WebhookSecret string // firma del cuerpo de los webhooks
}

// PlanConfig precio y duración del plan anual.
type PlanConfig struct {
	Amount       string // decimal en unidades mayores, ej. "999.00"
	Currency     string
	DurationDays int
	OrderTTL     time.Duration // tras este tiempo una orden created/pending deja de listarse
}

// MailConfig configuración de correo (Resend).
type MailConfig struct {
	ResendAPIKey string
	From         string
	AdminEmail   string // destinatario interno de avisos de pago
}

// StorageConfig almacenamiento de archivos subidos.
type StorageConfig struct {
	Driver        string // local | s3
	LocalDir      string
	PublicBaseURL string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
}

// RedisConfig conexión opcional a Redis (lock del job de recordatorios).
type RedisConfig struct {
	URL string
}

// ReminderConfig configuración del job diario de recordatorios de vencimiento.
type ReminderConfig struct {
	Enabled     bool
	Schedule    string // expresión cron, ej. "0 9 * * *"
	Timezone    string
	ExpiredDays int // días tras el vencimiento durante los que se envía expired_reminder
}

// LogConfig nivel de log.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, RAZORPAY_KEY_ID, etc.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe .env

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "hrms-api"),
			PublicURL: getString(v, "APP_PUBLIC_URL", "http://localhost:8080"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "hrms_control"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Tenant: TenantConfig{
			DBPrefix:    getString(v, "TENANT_DB_PREFIX", "hrms_"),
			MaxConns:    int32(getInt(v, "TENANT_MAX_CONNS", 5)),
			IdleTTL:     getDuration(v, "TENANT_IDLE_TTL", 30*time.Minute),
			AutoMigrate: getBool(v, "TENANT_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "hrms-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Razorpay: RazorpayConfig{
			KeyID:         getString(v, "RAZORPAY_KEY_ID", ""),
			KeySecret:     getString(v, "RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getString(v, "RAZORPAY_WEBHOOK_SECRET", ""),
		},
		Plan: PlanConfig{
			Amount:       getString(v, "PLAN_AMOUNT", "999.00"),
			Currency:     getString(v, "PLAN_CURRENCY", "INR"),
			DurationDays: getInt(v, "PLAN_DURATION_DAYS", 365),
			OrderTTL:     getDuration(v, "PLAN_ORDER_TTL", 30*time.Minute),
		},
		Mail: MailConfig{
			ResendAPIKey: getString(v, "RESEND_API_KEY", ""),
			From:         getString(v, "MAIL_FROM", "HRMS <no-reply@localhost>"),
			AdminEmail:   getString(v, "MAIL_ADMIN_EMAIL", ""),
		},
		Storage: StorageConfig{
			Driver:        getString(v, "STORAGE_DRIVER", "local"),
			LocalDir:      getString(v, "STORAGE_LOCAL_DIR", "./uploads"),
			PublicBaseURL: getString(v, "STORAGE_PUBLIC_BASE_URL", "/uploads"),
			S3Bucket:      getString(v, "S3_BUCKET", ""),
			S3Region:      getString(v, "S3_REGION", "ap-south-1"),
			S3Endpoint:    getString(v, "S3_ENDPOINT", ""),
			S3AccessKey:   getString(v, "S3_ACCESS_KEY_ID", ""),
			S3SecretKey:   getString(v, "S3_SECRET_ACCESS_KEY", ""),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", ""),
		},
		Reminder: ReminderConfig{
			Enabled:     getBool(v, "REMINDER_ENABLED", true),
			Schedule:    getString(v, "REMINDER_SCHEDULE", "0 9 * * *"),
			Timezone:    getString(v, "REMINDER_TIMEZONE", "Asia/Kolkata"),
			ExpiredDays: getInt(v, "REMINDER_EXPIRED_DAYS", 7),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	if cfg.JWT.Secret == "" && !cfg.App.IsDevelopment() {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio fuera de development")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		d := v.GetDuration(key)
		if d > 0 {
			return d
		}
	}
	return def
}
