package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Default parameters follow the argon2id low-memory profile from RFC 9106.
const (
	DefaultMemory      uint32 = 64 * 1024
	DefaultTime        uint32 = 1
	DefaultParallelism uint8  = 4
	DefaultSaltLength  uint32 = 16
	DefaultKeyLength   uint32 = 32
)

// Hasher derives and verifies salted argon2id password hashes encoded as
// PHC strings ($argon2id$v=19$m=...,t=...,p=...$salt$hash). The encoded form
// carries everything needed for verification, so parameters can change over
// time without invalidating stored hashes.
type Hasher struct {
	memory      uint32
	time        uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// Option overrides a single hashing parameter.
type Option func(*Hasher)

// WithMemory sets the memory cost in KiB.
func WithMemory(kib uint32) Option {
	return func(h *Hasher) {
		h.memory = kib
	}
}

// WithTime sets the number of passes.
func WithTime(t uint32) Option {
	return func(h *Hasher) {
		h.time = t
	}
}

// WithParallelism sets the number of lanes.
func WithParallelism(p uint8) Option {
	return func(h *Hasher) {
		h.parallelism = p
	}
}

// New creates a Hasher with the versioned defaults, optionally overridden.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		memory:      DefaultMemory,
		time:        DefaultTime,
		parallelism: DefaultParallelism,
		saltLength:  DefaultSaltLength,
		keyLength:   DefaultKeyLength,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives a salted hash of password and returns it PHC-encoded.
// A fresh random salt is generated on every call, so hashing the same
// password twice yields different encodings. A failed hash must never be
// stored; the only error source is the system RNG.
func (h *Hasher) Hash(password []byte) (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", errors.Join(ErrHashing, err)
	}

	key := argon2.IDKey(password, salt, h.time, h.memory, h.parallelism, h.keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.memory,
		h.time,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash of candidate using the parameters and salt
// embedded in encoded and compares in constant time. It returns nil on an
// exact match, ErrMismatch when the password differs, and ErrMalformedHash
// when encoded cannot be parsed. Callers presenting failures to clients must
// collapse both errors into a single generic message.
func (h *Hasher) Verify(encoded string, candidate []byte) error {
	params, err := parse(encoded)
	if err != nil {
		return err
	}

	key := argon2.IDKey(candidate, params.salt, params.time, params.memory, params.parallelism, params.keyLength)

	if subtle.ConstantTimeCompare(key, params.key) != 1 {
		return ErrMismatch
	}
	return nil
}

type parsed struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
	keyLength   uint32
}

func parse(encoded string) (*parsed, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 6 fields", ErrMalformedHash)
	}
	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, parts[1])
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if !strings.HasPrefix(parts[2], "v=") || err != nil {
		return nil, fmt.Errorf("%w: bad version field", ErrMalformedHash)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, version)
	}

	p := &parsed{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.parallelism); err != nil {
		return nil, fmt.Errorf("%w: bad parameter field", ErrMalformedHash)
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedHash)
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return nil, fmt.Errorf("%w: bad hash encoding", ErrMalformedHash)
	}
	p.keyLength = uint32(len(p.key))

	return p, nil
}
