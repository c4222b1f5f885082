package config

import "strconv"

type MinioConfig struct {
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Endpoint      string `yaml:"endpoint"`
	UseSSL        bool   `yaml:"use_ssl"`
	Region        string `yaml:"region"`
	BucketName    string `yaml:"bucket"`
	PublicBaseURL string `yaml:"public_base_url"`
}

func (c MinioConfig) withEnv() MinioConfig {
	c.AccessKey = envOr("MINIO_ACCESS_KEY", c.AccessKey)
	c.SecretKey = envOr("MINIO_SECRET_KEY", c.SecretKey)
	c.Endpoint = envOr("MINIO_ENDPOINT", c.Endpoint)
	c.Region = envOr("MINIO_REGION", c.Region)
	c.BucketName = envOr("MINIO_BUCKET_NAME", c.BucketName)
	c.PublicBaseURL = envOr("MINIO_PUBLIC_BASE_URL", c.PublicBaseURL)
	if v, err := strconv.ParseBool(envOr("MINIO_USE_SSL", "")); err == nil {
		c.UseSSL = v
	}
	return c
}
