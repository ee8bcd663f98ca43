package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the product API.
type Config struct {
	AppPort    string
	AppVersion string

	DBDriver    string
	DatabaseDSN string
	MongoURI    string
	MongoDB     string

	StorageDriver    string
	StorageLocalRoot string
	StorageURL       string
	S3Bucket         string
	S3Region         string
	S3Key            string
	S3Secret         string
	S3Endpoint       string
	S3URL            string

	JWTSecret         string
	AdminUsername     string
	AdminPassword     string
	ProductWriteRoles []string
	UploadMaxFiles    int
	UploadMaxFileSize int64
	RabbitMQURL       string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("Could not load .env file: %v", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("DB_DRIVER", "memory")
	v.SetDefault("DATABASE_DSN", "file:products.db?cache=shared")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "productapi")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_ROOT", "./uploads")
	v.SetDefault("STORAGE_URL", "/uploads")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("PRODUCT_WRITE_ROLES", "admin,manager")
	v.SetDefault("UPLOAD_MAX_FILES", 2)
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 2<<20)
	v.SetDefault("RABBITMQ_URL", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		AppVersion:        v.GetString("APP_VERSION"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		StorageDriver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageLocalRoot:  v.GetString("STORAGE_LOCAL_ROOT"),
		StorageURL:        strings.TrimRight(v.GetString("STORAGE_URL"), "/"),
		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Region:          v.GetString("S3_REGION"),
		S3Key:             v.GetString("S3_KEY"),
		S3Secret:          v.GetString("S3_SECRET"),
		S3Endpoint:        v.GetString("S3_ENDPOINT"),
		S3URL:             strings.TrimRight(v.GetString("S3_URL"), "/"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		ProductWriteRoles: splitList(v.GetString("PRODUCT_WRITE_ROLES")),
		UploadMaxFiles:    v.GetInt("UPLOAD_MAX_FILES"),
		UploadMaxFileSize: v.GetInt64("UPLOAD_MAX_FILE_SIZE"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
	}

	switch cfg.DBDriver {
	case "memory", "mongo", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.StorageDriver {
	case "local":
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER is s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.UploadMaxFiles <= 0 || cfg.UploadMaxFileSize <= 0 {
		return nil, fmt.Errorf("upload limits must be positive")
	}
	if len(cfg.ProductWriteRoles) == 0 {
		return nil, fmt.Errorf("PRODUCT_WRITE_ROLES must name at least one role")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
