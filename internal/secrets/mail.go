package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "internwatch"

// SMTPPassword looks up the submission password for user@host. The
// environment always wins; this is only consulted when it is empty.
func SMTPPassword(username, host string) (string, error) {
	account := smtpAccount(username, host)
	pw, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("SMTP password not found in keychain")
	}
	return pw, nil
}

func SetSMTPPassword(username, host, password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, smtpAccount(username, host), password)
}

// SendGridKey looks up the mail-API key stored for a sender address.
func SendGridKey(from string) (string, error) {
	key, err := keyring.Get(KeyringService, sendgridAccount(from))
	if err != nil || strings.TrimSpace(key) == "" {
		return "", errors.New("SendGrid key not found in keychain")
	}
	return key, nil
}

func SetSendGridKey(from, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is empty")
	}
	return keyring.Set(KeyringService, sendgridAccount(from), key)
}

func smtpAccount(username, host string) string {
	return fmt.Sprintf("internwatch:smtp:%s@%s", username, host)
}

func sendgridAccount(from string) string {
	return fmt.Sprintf("internwatch:sendgrid:%s", from)
}
