package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Reset codes are TOTP codes whose period equals the code lifetime. Only the
// secret is stored; the 6-digit code is mailed and never persisted.

func resetOpts(ttl time.Duration) totp.ValidateOpts {
	period := uint(ttl / time.Second)
	if period == 0 {
		period = 30
	}
	return totp.ValidateOpts{
		Period:    period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// NewResetCode returns a fresh secret and the code derived from it at now.
func NewResetCode(issuer, email string, ttl time.Duration, now time.Time) (secret, code string, err error) {
	opts := resetOpts(ttl)
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: email,
		Period:      opts.Period,
		Digits:      opts.Digits,
		Algorithm:   opts.Algorithm,
	})
	if err != nil {
		return "", "", err
	}
	code, err = totp.GenerateCodeCustom(key.Secret(), now, opts)
	if err != nil {
		return "", "", err
	}
	return key.Secret(), code, nil
}

// ValidateResetCode checks code against secret. Expiry is enforced by the
// caller through the stored deadline; the skew only absorbs step boundaries.
func ValidateResetCode(secret, code string, ttl time.Duration, now time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, now, resetOpts(ttl))
	return err == nil && ok
}
