package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"8000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Face embedding backend
	FaceProvider string `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:9000"`
	FaceModel    string `envconfig:"FACE_MODEL" default:"ArcFace"`
	FaceDetector string `envconfig:"FACE_DETECTOR" default:"opencv"`
	EmbeddingDim int    `envconfig:"EMBEDDING_DIM" default:"512"`

	// PPE detection backend
	PPEProvider string `envconfig:"PPE_PROVIDER" default:"yolo"`
	YOLOURL     string `envconfig:"YOLO_URL" default:"http://localhost:8500"`

	// Pipeline tuning. The recognition threshold is an exclusive upper
	// bound on cosine distance: a match at exactly the threshold is
	// rejected.
	RecognitionThreshold float64 `envconfig:"RECOGNITION_THRESHOLD" default:"0.6"`
	ConfidenceFloor      float64 `envconfig:"CONFIDENCE_FLOOR" default:"0.5"`

	// Streaming session behavior
	MissPolicy        string `envconfig:"MISS_POLICY" default:"silent"`
	RequiredEquipment string `envconfig:"REQUIRED_EQUIPMENT" default:"helmet,vest"`

	// Batch enrollment
	BaseImagePath string `envconfig:"BASE_IMAGE_PATH" default:"./images"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.RecognitionThreshold <= 0 {
		return nil, fmt.Errorf("recognition threshold must be positive, got %v", cfg.RecognitionThreshold)
	}
	if cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", cfg.EmbeddingDim)
	}

	return &cfg, nil
}

// RequiredEquipmentList splits the configured default equipment set.
// Empty entries are dropped, so "helmet,,vest" and "helmet,vest" agree.
func (c *Config) RequiredEquipmentList() []string {
	parts := strings.Split(c.RequiredEquipment, ",")
	equipment := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			equipment = append(equipment, trimmed)
		}
	}
	return equipment
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
