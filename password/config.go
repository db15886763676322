package password

import "github.com/nazonexus/identity/config"

// FromConfig creates a Hasher from the password section of the service
// configuration.
func FromConfig(cfg config.PasswordConfig) *Hasher {
	return NewHasher(
		WithTime(cfg.Time),
		WithMemory(cfg.Memory),
		WithThreads(cfg.Threads),
		WithLengthBounds(cfg.MinLength, cfg.MaxLength),
	)
}
