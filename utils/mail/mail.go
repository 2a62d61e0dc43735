package mail

import (
	"bytes"
	"context"
	"crypto/subtle"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/servenear/marketplace/config"
	redisclient "github.com/servenear/marketplace/config/redis"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/utils"
	gomail "gopkg.in/gomail.v2"
)

const OTP_EXPIRATION_MINUTES = 10

// Redis key prefix for email verification OTPs.
const EMAIL_VERIFICATION_OTP_PREFIX = "email_verification_otp:"

// ErrOTPNotFound is returned when an OTP is missing, expired or wrong.
var ErrOTPNotFound = errors.New("otp not found or expired")

func init() {
	config.LoadEnv()
}

var verificationTemplate = template.Must(template.New("verification_otp").Parse(`
<html>
  <body style="font-family: sans-serif;">
    <h2>Verify your email</h2>
    <p>Hi {{.Username}},</p>
    <p>Your verification code is:</p>
    <p style="font-size: 24px; letter-spacing: 4px;"><strong>{{.OTP}}</strong></p>
    <p>This code expires in {{.ExpiryMinutes}} minutes.</p>
  </body>
</html>`))

func sendEmail(toEmail, subject string, tmpl *template.Template, data interface{}) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", os.Getenv("FROM_EMAIL"))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template: %v", err)
		return fmt.Errorf("failed to execute email template: %w", err)
	}
	mailer.SetBody("text/html", body.String())

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		logger.ErrorLogger.Errorf("Invalid SMTP port: %v", err)
		return fmt.Errorf("invalid SMTP port: %w", err)
	}

	smtpHost := os.Getenv("SMTP_HOST")
	dialer := gomail.NewDialer(smtpHost, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	dialer.TLSConfig = &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         smtpHost,
	}

	if err := dialer.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Email %q sent to %s", subject, toEmail)
	return nil
}

// SendVerificationOTP mails the registration OTP to a new account.
func SendVerificationOTP(email, username, otp string) error {
	logger.InfoLogger.Infof("Sending email verification OTP to %s", email)
	data := struct {
		Username      string
		OTP           string
		ExpiryMinutes int
	}{
		Username:      username,
		OTP:           otp,
		ExpiryMinutes: OTP_EXPIRATION_MINUTES,
	}
	return sendEmail(email, "Verify Your Email Address", verificationTemplate, data)
}

// StoreOTP stores the OTP hash in Redis with expiration; the raw code never
// touches Redis.
func StoreOTP(ctx context.Context, key, otp string) error {
	rdb, err := redisclient.GetRedisClient(ctx)
	if err != nil {
		return err
	}

	hashedOTP := utils.HashOTP(otp)
	if err := rdb.Set(ctx, key, hashedOTP, OTP_EXPIRATION_MINUTES*time.Minute).Err(); err != nil {
		logger.ErrorLogger.Errorf("Failed to store OTP with key %s: %v", key, err)
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

// VerifyOTP compares the submitted code against the stored hash and clears
// it on success so each OTP is single-use.
func VerifyOTP(ctx context.Context, key, otp string) error {
	rdb, err := redisclient.GetRedisClient(ctx)
	if err != nil {
		return err
	}

	storedHash, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPNotFound
		}
		logger.ErrorLogger.Errorf("Failed to retrieve OTP for key %s: %v", key, err)
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(storedHash), []byte(utils.HashOTP(otp))) != 1 {
		return ErrOTPNotFound
	}

	if err := rdb.Del(ctx, key).Err(); err != nil {
		logger.WarnLogger.Warnf("Failed to clear OTP for key %s: %v", key, err)
	}
	return nil
}
