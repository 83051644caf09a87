package ssotoken

import "log/slog"

const redacted = "[REDACTED]"

// SigningKey is the shared portal secret.
// It renders as a placeholder wherever it could end up in logs or output.
type SigningKey string

func (k SigningKey) String() string               { return redacted }
func (k SigningKey) GoString() string             { return redacted }
func (k SigningKey) MarshalText() ([]byte, error) { return []byte(redacted), nil }
func (k SigningKey) LogValue() slog.Value         { return slog.StringValue(redacted) }

// IsSet reports whether the key is non-empty.
func (k SigningKey) IsSet() bool { return k != "" }

func (k SigningKey) bytes() []byte { return []byte(k) }
