package security

import "time"

// Thresholds below which BuildReport adds a warning.
const (
	RecommendedSecretBytes = 32
	RecommendedBcryptCost  = 10
	MaxRecommendedTokenTTL = 24 * time.Hour
)

type PasswordReport struct {
	Algorithm         string
	BcryptCost        int
	Argon2Memory      uint32
	Argon2Time        uint32
	Argon2Parallelism uint8
}

type Report struct {
	SigningAlgorithm string
	TokenTTL         time.Duration
	Leeway           time.Duration
	Issuer           string
	Password         PasswordReport
	// StatelessLogout is always true: logout never revokes a token.
	StatelessLogout bool
	AuditEnabled    bool
	MetricsEnabled  bool
	Warnings        []string
}

type ReportInput struct {
	SecretBytes    int
	TokenTTL       time.Duration
	Leeway         time.Duration
	Issuer         string
	Password       PasswordReport
	AuditEnabled   bool
	MetricsEnabled bool
}

func BuildReport(input ReportInput) Report {
	var warnings []string
	if input.SecretBytes < RecommendedSecretBytes {
		warnings = append(warnings, "signing secret is shorter than 32 bytes")
	}
	if input.TokenTTL > MaxRecommendedTokenTTL {
		warnings = append(warnings, "token lifetime exceeds 24h and logout cannot revoke tokens")
	}
	if input.Issuer == "" {
		warnings = append(warnings, "token issuer is not checked")
	}
	if input.Password.Algorithm == "bcrypt" && input.Password.BcryptCost < RecommendedBcryptCost {
		warnings = append(warnings, "bcrypt cost is below 10")
	}
	if !input.AuditEnabled {
		warnings = append(warnings, "audit events are disabled")
	}

	return Report{
		SigningAlgorithm: "HS256",
		TokenTTL:         input.TokenTTL,
		Leeway:           input.Leeway,
		Issuer:           input.Issuer,
		Password:         input.Password,
		StatelessLogout:  true,
		AuditEnabled:     input.AuditEnabled,
		MetricsEnabled:   input.MetricsEnabled,
		Warnings:         warnings,
	}
}
