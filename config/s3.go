package config

// S3Config holds the settings of the AWS S3 backend. Environment variables
// take precedence over file values.
type S3Config struct {
	BucketName    string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

func (c S3Config) withEnv() S3Config {
	c.BucketName = envOr("AWS_S3_BUCKET_NAME", c.BucketName)
	c.Region = envOr("AWS_REGION", c.Region)
	c.Endpoint = envOr("AWS_ENDPOINT", c.Endpoint)
	c.AccessKey = envOr("AWS_ACCESS_KEY", c.AccessKey)
	c.SecretKey = envOr("AWS_SECRET_KEY", c.SecretKey)
	c.PublicBaseURL = envOr("AWS_PUBLIC_BASE_URL", c.PublicBaseURL)
	return c
}
