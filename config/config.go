package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is built once in main and passed down. Nothing reads the
// environment after Load returns.
type Config struct {
	MongoURI        string   `yaml:"mongoUri"`
	Database        string   `yaml:"database"`
	Port            string   `yaml:"port"`
	JWTSecret       string   `yaml:"jwtSecret"`
	SuperAdminEmail string   `yaml:"superAdminEmail"`
	AllowOrigins    []string `yaml:"allowOrigins"`
	UploadDir       string   `yaml:"uploadDir"`
}

func defaults() Config {
	return Config{
		MongoURI:     "mongodb://localhost:27017",
		Database:     "marketplace",
		Port:         "8080",
		JWTSecret:    "SECRET",
		AllowOrigins: []string{"http://localhost:3000"},
		UploadDir:    "uploads",
	}
}

// Load reads the YAML config file if it exists, then applies environment
// overrides. A missing file is not an error; defaults apply.
func Load(filename string) (Config, error) {
	config := defaults()

	file, err := os.Open(filename)
	if err == nil {
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, err
		}
	} else if !os.IsNotExist(err) {
		return config, err
	}

	if uri := os.Getenv("MONGO_PUBLIC_URL"); uri != "" {
		config.MongoURI = uri
	} else if uri := os.Getenv("MONGO_URL"); uri != "" {
		config.MongoURI = uri
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Port = port
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWTSecret = secret
	}
	if email := os.Getenv("SUPER_ADMIN_EMAIL"); email != "" {
		config.SuperAdminEmail = email
	}

	return config, nil
}
