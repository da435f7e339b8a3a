// Package notify delivers the out-of-band messages of the account lifecycle:
// verification mail over SMTP and phone OTP codes over SMS.
package notify

import (
	"context"
	"errors"
	"fmt"

	"reuniteme/pkg/utils"

	"go.uber.org/zap"
)

// ErrDelivery marks failures of the mail or SMS provider so callers can tell them
// apart from storage errors.
var ErrDelivery = errors.New("notification delivery failed")

type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type Dispatcher struct {
	mailer    Mailer
	sms       SMSSender
	clientURL string
	window    int
	otpLength int
	log       *zap.Logger
}

func NewDispatcher(mailer Mailer, sms SMSSender, config *utils.Config, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:    mailer,
		sms:       sms,
		clientURL: config.App.ClientURL,
		window:    config.Verification.ExpiryMinutes,
		otpLength: config.OTP.Length,
		log:       log.With(zap.String("component", "notify")),
	}
}

// SendVerificationEmail mails the cleartext token embedded in a link.
func (d *Dispatcher) SendVerificationEmail(ctx context.Context, to, clearToken string) error {
	link := fmt.Sprintf("%s/users/verify/%s", d.clientURL, clearToken)
	body := fmt.Sprintf(
		"Please use the link below to verify your account.\n\n%s\n\nThis link will be valid only for %d minutes.",
		link, d.window,
	)

	if err := d.mailer.SendMail(ctx, to, "Verify your ReUniteME account", body); err != nil {
		d.log.Error("Failed to send verification email", zap.Error(err), zap.String("email", to))
		return fmt.Errorf("%w: email to %s: %v", ErrDelivery, to, err)
	}

	d.log.Info("Verification email sent", zap.String("email", to))
	return nil
}

// SendPhoneOTP texts a fresh one-time code to phone and returns it so the caller
// can persist its hash.
func (d *Dispatcher) SendPhoneOTP(ctx context.Context, phone string) (string, error) {
	otp, err := utils.GenerateOTP(d.otpLength)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf("Your verification code for ReUniteME account is %s", otp)
	if err := d.sms.SendSMS(ctx, phone, body); err != nil {
		d.log.Error("Failed to send OTP", zap.Error(err), zap.String("phone", phone))
		return "", fmt.Errorf("%w: sms to %s: %v", ErrDelivery, phone, err)
	}

	d.log.Info("OTP sent", zap.String("phone", phone))
	return otp, nil
}
