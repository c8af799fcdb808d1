package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root must not be empty")
	}
	if c.Storage.ImageMaxBytes <= 0 {
		return fmt.Errorf("storage.image_max_bytes must be > 0 (got %d)", c.Storage.ImageMaxBytes)
	}
	if c.Storage.VideoMaxBytes <= 0 {
		return fmt.Errorf("storage.video_max_bytes must be > 0 (got %d)", c.Storage.VideoMaxBytes)
	}

	if c.Media.MaxDimension <= 0 {
		return fmt.Errorf("media.max_dimension must be > 0 (got %d)", c.Media.MaxDimension)
	}
	if c.Media.JPEGQuality < 1 || c.Media.JPEGQuality > 100 {
		return fmt.Errorf("media.jpeg_quality must be in 1..100 (got %d)", c.Media.JPEGQuality)
	}
	if c.Media.TransformTimeout <= 0 {
		return fmt.Errorf("media.transform_timeout must be > 0 (got %v)", c.Media.TransformTimeout)
	}

	return nil
}
