package translate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedService is returned for a service name not in the registry.
	ErrUnsupportedService = errors.New("translate: unsupported translation service")
	// ErrInvalidCredential is returned when a credential is missing or not in
	// the format the service needs.
	ErrInvalidCredential = errors.New("translate: invalid credential")
	// ErrMissingOption is returned when a required driver option is absent.
	ErrMissingOption = errors.New("translate: missing option")
)

// ProviderError is a failed call to a translation service.
type ProviderError struct {
	// Provider is the display name used in the message ("DeepL").
	Provider string
	// Message is the provider's error text, or a description of the failure.
	Message string
	// Code is the provider's error code or the HTTP status, when known.
	Code string
	// Cause is the underlying transport or decoding error.
	Cause error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(" API error: ")
	b.WriteString(e.Message)
	if e.Code != "" {
		b.WriteString(" (")
		b.WriteString(e.Code)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// splitCredential splits an "id:secret" credential.
func splitCredential(provider, credential, format string) (string, string, error) {
	id, secret, ok := strings.Cut(credential, ":")
	if !ok || id == "" || secret == "" {
		return "", "", fmt.Errorf("%w: %s requires a credential in the format %q", ErrInvalidCredential, provider, format)
	}
	return id, secret, nil
}

func requireCredential(provider, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return fmt.Errorf("%w: %s requires an API key", ErrInvalidCredential, provider)
	}
	return nil
}

func missingOption(provider, name string) error {
	return fmt.Errorf("%w: %s requires the %q option", ErrMissingOption, provider, name)
}
