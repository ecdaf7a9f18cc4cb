package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// ClientConfig configures the storefront client. The backend base URL is
// always external configuration, never a compiled-in default.
type ClientConfig struct {
	BaseURL       string
	SessionDBPath string
	LogLevel      string
}

// ServerConfig configures the reference backend.
type ServerConfig struct {
	ListenAddr     string
	DatabaseURL    string
	JWTSecret      []byte
	RefreshSecret  []byte
	KafkaAddress   string
	ESURL          string
	ESUser         string
	ESPassword     string
	RazorpayKeyID  string
	RazorpaySecret string
	LogLevel       string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func loadDotenv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
}

func LoadClient() *ClientConfig {
	loadDotenv()
	return &ClientConfig{
		BaseURL:       must(os.Getenv("STOREFRONT_API_URL"), "STOREFRONT_API_URL"),
		SessionDBPath: getenv("STOREFRONT_SESSION_DB", "storefront.db"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
}

func LoadServer() *ServerConfig {
	loadDotenv()
	return &ServerConfig{
		ListenAddr:     getenv("DEVSERVER_ADDR", ":8000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		RefreshSecret:  []byte(must(os.Getenv("REFRESH_SECRET"), "REFRESH_SECRET")),
		KafkaAddress:   os.Getenv("KAFKA_ADDRESS"),
		ESURL:          os.Getenv("ES_URL"),
		ESUser:         os.Getenv("ES_USER"),
		ESPassword:     os.Getenv("ES_PASSWORD"),
		RazorpayKeyID:  getenv("RAZORPAY_KEY_ID", "rzp_test_devserver"),
		RazorpaySecret: getenv("RAZORPAY_KEY_SECRET", "devserver-secret"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}
