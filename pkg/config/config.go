package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la herramienta (lectura vía Viper desde env y opcionalmente archivo).
// Sin variables ni archivo, los valores por defecto reproducen las rutas fijas del reporte.
type Config struct {
	App    AppConfig
	Input  InputConfig
	Output OutputConfig
	Report ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// InputConfig describe la hoja de cálculo de transacciones.
type InputConfig struct {
	Path    string // .xlsx, .xlsm o .csv
	Sheet   string // vacío = primera hoja del libro
	Charset string // utf-8 | iso-8859-1 (solo CSV)
}

// Format devuelve la extensión del archivo de entrada en minúsculas y sin punto.
func (c InputConfig) Format() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(c.Path)), ".")
}

// OutputConfig rutas de los artefactos generados.
type OutputConfig struct {
	ChartPath string // gráfico de barras top productos
	TablePath string // tabla de ingresos por país
	PDFPath   string // opcional: vacío = no se genera el PDF
	DPI       float64
}

// ReportConfig reglas de negocio del reporte.
type ReportConfig struct {
	TopN               int
	CurrencySymbol     string
	CancellationPrefix string // prefijo de InvoiceNo que marca una anulación
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: INPUT_PATH, CHART_PATH, REPORT_TOP_N, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "production"),
			Name:     getString(v, "APP_NAME", "retail-visuals"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Input: InputConfig{
			Path:    getString(v, "INPUT_PATH", "Online_Retail.xlsx"),
			Sheet:   getString(v, "INPUT_SHEET", ""),
			Charset: strings.ToLower(getString(v, "INPUT_CHARSET", "utf-8")),
		},
		Output: OutputConfig{
			ChartPath: getString(v, "CHART_PATH", "top_products.png"),
			TablePath: getString(v, "TABLE_PATH", "country_revenue_table.png"),
			PDFPath:   getString(v, "REPORT_PDF_PATH", ""),
			DPI:       getFloat(v, "RENDER_DPI", 300),
		},
		Report: ReportConfig{
			TopN:               getInt(v, "REPORT_TOP_N", 5),
			CurrencySymbol:     getString(v, "REPORT_CURRENCY", "£"),
			CancellationPrefix: getString(v, "CANCELLATION_PREFIX", "C"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("config: INPUT_PATH vacío")
	}
	if c.Output.ChartPath == "" || c.Output.TablePath == "" {
		return fmt.Errorf("config: CHART_PATH y TABLE_PATH son obligatorios")
	}
	if c.Report.TopN <= 0 {
		return fmt.Errorf("config: REPORT_TOP_N debe ser positivo, recibido %d", c.Report.TopN)
	}
	if c.Output.DPI <= 0 {
		return fmt.Errorf("config: RENDER_DPI debe ser positivo")
	}
	switch c.Input.Charset {
	case "utf-8", "utf8", "iso-8859-1", "latin1":
	default:
		return fmt.Errorf("config: INPUT_CHARSET no soportado: %q", c.Input.Charset)
	}
	return nil
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return 0
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		if s, ok := v.Get(key).(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return 0
			}
			return f
		}
		return v.GetFloat64(key)
	}
	return def
}
