// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTPIssuer is the issuer name shown in authenticator apps.
const TOTPIssuer = "The Unfolding Mind"

// TOTPEnrollment is a freshly generated TOTP secret with its QR code.
type TOTPEnrollment struct {
	Secret string
	URL    string // otpauth:// URI
	QRCode []byte // PNG
}

// NewTOTP generates a TOTP secret for the given account name and renders
// its otpauth URI as a PNG QR code.
func NewTOTP(accountName string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	return &TOTPEnrollment{Secret: key.Secret(), URL: key.URL(), QRCode: png}, nil
}

// VerifyTOTP reports whether code is valid for secret at time t, allowing
// one 30-second step of clock skew either way.
func VerifyTOTP(code, secret string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
