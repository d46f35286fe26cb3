package security

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// Argon2Params tunes the Argon2id key derivation.
type Argon2Params struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// DefaultArgon2Params follows the OWASP recommendation for Argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKiB: 64 * 1024,
		Time:      3,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

// Argon2Hasher hashes passwords with Argon2id and stores them in PHC format:
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
//
// At most `concurrency` derivations run at once; each one holds MemoryKiB of RAM.
type Argon2Hasher struct {
	params Argon2Params
	sem    *semaphore.Weighted
}

func NewArgon2Hasher(p Argon2Params, concurrency int64) *Argon2Hasher {
	def := DefaultArgon2Params()
	if p.MemoryKiB == 0 {
		p.MemoryKiB = def.MemoryKiB
	}
	if p.Time == 0 {
		p.Time = def.Time
	}
	if p.Threads == 0 {
		p.Threads = def.Threads
	}
	if p.KeyLen == 0 {
		p.KeyLen = def.KeyLen
	}
	if p.SaltLen == 0 {
		p.SaltLen = def.SaltLen
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Argon2Hasher{
		params: p,
		sem:    semaphore.NewWeighted(concurrency),
	}
}

func (h *Argon2Hasher) Hash(ctx context.Context, password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.ErrHashFailed(fmt.Errorf("generating salt: %w", err))
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", domain.ErrHashFailed(err)
	}
	defer h.sem.Release(1)

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against a stored PHC hash. A hash that cannot be
// decoded yields an error wrapping domain.ErrCorruptCredential.
func (h *Argon2Hasher) Verify(ctx context.Context, encodedHash, password string) (bool, error) {
	salt, key, params, err := decodePHC(encodedHash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCorruptCredential, err)
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key))) //nolint:gosec // bounded in decodePHC

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

func decodePHC(encoded string) (salt, key []byte, params argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, params, fmt.Errorf("invalid PHC hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, params, fmt.Errorf("parsing parameters: %w", err)
	}
	// argon2.IDKey panics on t=0 or p=0
	if params.time < 1 {
		return nil, nil, params, fmt.Errorf("time must be at least 1")
	}
	if params.threads < 1 {
		return nil, nil, params, fmt.Errorf("parallelism must be at least 1")
	}
	if uint64(params.memory) < 8*uint64(params.threads) {
		return nil, nil, params, fmt.Errorf("memory below 8*p KiB")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}
	if len(salt) == 0 {
		return nil, nil, params, fmt.Errorf("empty salt")
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}
	if len(key) == 0 {
		return nil, nil, params, fmt.Errorf("empty hash")
	}
	if uint64(len(key)) > math.MaxUint32 {
		return nil, nil, params, fmt.Errorf("hash too long")
	}

	return salt, key, params, nil
}
