package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	LogFile      string `yaml:"LOG_FILE"`
	RateLimitMax string `yaml:"RATE_LIMIT_MAX"`

	// Database configuration
	DBType     string `yaml:"DB_TYPE"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBMaxConns string `yaml:"DB_MAX_CONNS"`

	// Session signing key
	JWTSecret string `yaml:"JWT_SECRET"`

	// Image uploads
	StorageDriver     string `yaml:"STORAGE_DRIVER"`
	UploadDir         string `yaml:"UPLOAD_DIR"`
	MaxUploadBytes    string `yaml:"MAX_UPLOAD_BYTES"`
	ImageMaxDimension string `yaml:"IMAGE_MAX_DIMENSION"`
	ImageQuality      string `yaml:"IMAGE_QUALITY"`
	ImageMaxPixels    string `yaml:"IMAGE_MAX_PIXELS"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

var defaults = map[string]string{
	"APP_PORT":            "5000",
	"APP_URL":             "http://localhost:5000",
	"LOG_FILE":            "./logs/app.log",
	"RATE_LIMIT_MAX":      "20",
	"DB_TYPE":             "sqlite",
	"DB_NAME":             "cuisinade.sqlite",
	"DB_MAX_CONNS":        "10",
	"STORAGE_DRIVER":      "local",
	"UPLOAD_DIR":          "./static/uploads",
	"MAX_UPLOAD_BYTES":    "3145728",
	"IMAGE_MAX_DIMENSION": "1024",
	"IMAGE_QUALITY":       "85",
	"IMAGE_MAX_PIXELS":    "50000000",
}

func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig resolves key from the environment first, then config.yaml, then
// the built-in default.
func GetConfig(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := fromFile(key); value != "" {
		return value
	}
	return defaults[key]
}

func GetConfigInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func fromFile(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "LOG_FILE":
		return config.LogFile
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "DB_TYPE":
		return config.DBType
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_MAX_CONNS":
		return config.DBMaxConns
	case "JWT_SECRET":
		return config.JWTSecret
	case "STORAGE_DRIVER":
		return config.StorageDriver
	case "UPLOAD_DIR":
		return config.UploadDir
	case "MAX_UPLOAD_BYTES":
		return config.MaxUploadBytes
	case "IMAGE_MAX_DIMENSION":
		return config.ImageMaxDimension
	case "IMAGE_QUALITY":
		return config.ImageQuality
	case "IMAGE_MAX_PIXELS":
		return config.ImageMaxPixels
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}
