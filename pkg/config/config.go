package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo .env).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Billing BillingConfig
	SMTP    SMTPConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
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

// BillingConfig parámetros de la corrida de facturación. La tarifa y el
// umbral son constantes de proceso: se leen una vez al arrancar y no se
// mutan en runtime.
type BillingConfig struct {
	RatePerBranch int    // EUR por sucursal canónica por mes
	Threshold     int    // umbral de similitud [0,100] para el dedupe
	UploadDir     string // destino de los CSV subidos
	ExportDir     string // raíz de los exports por integrador/país
	InvoiceDir    string // destino de las facturas PDF
	ScheduleDay   int    // día del mes de la corrida programada
	SnapshotPath  string // CSV que usa el scheduler
	GuardFile     string // archivo guarda "ya corrió hoy" del scheduler
}

// SMTPConfig envío de facturas por correo.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load lee la configuración desde variables de entorno y opcionalmente un
// archivo .env. Las env vars tienen prioridad. Nombres esperados: APP_ENV,
// HTTP_PORT, BILLING_THRESHOLD, SMTP_HOST, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "pos-billing"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Billing: BillingConfig{
			RatePerBranch: getInt(v, "BILLING_RATE_PER_BRANCH", 15),
			Threshold:     getInt(v, "BILLING_THRESHOLD", 85),
			UploadDir:     getString(v, "BILLING_UPLOAD_DIR", "uploads"),
			ExportDir:     getString(v, "BILLING_EXPORT_DIR", "exports"),
			InvoiceDir:    getString(v, "BILLING_INVOICE_DIR", "invoices"),
			ScheduleDay:   getInt(v, "BILLING_SCHEDULE_DAY", 5),
			SnapshotPath:  getString(v, "BILLING_SNAPSHOT_PATH", "snapshot.csv"),
			GuardFile:     getString(v, "BILLING_GUARD_FILE", "last_run.txt"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", ""),
		},
	}

	if cfg.Billing.Threshold < 0 || cfg.Billing.Threshold > 100 {
		return nil, fmt.Errorf("BILLING_THRESHOLD fuera de rango [0,100]: %d", cfg.Billing.Threshold)
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
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
