package auth

import "os"

// Config holds auth configuration
type Config struct {
	Issuer string
	Secret string
}

// DefaultIssuer is the identity provider issuing staff tokens.
const DefaultIssuer = "https://id.santalucia-health.example/realms/hospital"

// LoadConfig reads config from env with sensible defaults.
// Override with AUTH_ISSUER and AUTH_SECRET.
func LoadConfig() Config {
	issuer := os.Getenv("AUTH_ISSUER")
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return Config{
		Issuer: issuer,
		Secret: os.Getenv("AUTH_SECRET"),
	}
}
