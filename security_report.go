package portalAuth

import (
	"github.com/leanda/portalAuth/internal/security"
	"github.com/leanda/portalAuth/password"
)

// SecurityReport is a read-only snapshot of the engine's security posture,
// returned by [Engine.SecurityReport]. It never contains the secret itself.
type SecurityReport = security.Report

// PasswordReport describes the active password hasher.
type PasswordReport = security.PasswordReport

// SecurityReport summarizes the built configuration and lists weak settings
// in Warnings.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	pw := PasswordReport{Algorithm: "custom"}
	switch h := e.hasher.(type) {
	case *password.Bcrypt:
		pw.Algorithm = password.AlgorithmBcrypt
		pw.BcryptCost = e.config.Password.BcryptCost
		if cost, err := h.Cost(e.dummyHash); err == nil {
			pw.BcryptCost = cost
		}
	case *password.Argon2:
		pw.Algorithm = password.AlgorithmArgon2id
		pw.Argon2Memory = e.config.Password.Argon2.Memory
		pw.Argon2Time = e.config.Password.Argon2.Time
		pw.Argon2Parallelism = e.config.Password.Argon2.Parallelism
	}

	return security.BuildReport(security.ReportInput{
		SecretBytes:    len(e.config.JWT.Secret),
		TokenTTL:       e.config.JWT.TTL,
		Leeway:         e.config.JWT.Leeway,
		Issuer:         e.config.JWT.Issuer,
		Password:       pw,
		AuditEnabled:   e.audit != nil,
		MetricsEnabled: e.metrics.Enabled(),
	})
}
