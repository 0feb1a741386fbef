// Package obf maps symbol names to fixed-width hashes so callers can
// identify exports without carrying the plaintext name in the binary.
package obf

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Algorithm selects the name-hash function. All algorithms are pure
// functions of the input bytes; constants precomputed at build time stay
// valid across builds.
type Algorithm int32

const (
	// AlgFNV1a is the default: FNV-1a over the raw bytes, case-sensitive.
	AlgFNV1a Algorithm = iota
	// AlgDJB2 folds upper case to lower before hashing. Kept for
	// compatibility with constants emitted by older tooling.
	AlgDJB2
	// AlgXXH64 is xxhash.Sum64 folded to 32 bits.
	AlgXXH64
)

const (
	fnvOffsetBasis uint32 = 0x811C9DC5
	fnvPrime       uint32 = 16777619
)

var (
	logger     atomic.Pointer[log.Logger]
	defaultAlg atomic.Int32
)

func init() {
	l := log.Logger(log.NewNopLogger())
	logger.Store(&l)
}

// SetLogger routes collision warnings somewhere visible. The default
// logger discards everything. Safe to call concurrently with hashing.
func SetLogger(l log.Logger) {
	if l != nil {
		logger.Store(&l)
	}
}

func getLogger() log.Logger {
	return *logger.Load()
}

// SetDefaultAlgorithm switches the algorithm GetHash (and so the whole
// resolver) compares with. Call it once at startup, before any hashing,
// when build-time constants were emitted with a non-default algorithm
// (hash_replacer --alg=...); precomputed constants and the runtime hasher
// must agree or nothing resolves. Switching drops the hash cache.
func SetDefaultAlgorithm(alg Algorithm) {
	switch alg {
	case AlgFNV1a, AlgDJB2, AlgXXH64:
	default:
		return
	}
	defaultAlg.Store(int32(alg))
	ClearHashCache()
}

// DefaultAlgorithm reports the algorithm GetHash currently uses.
func DefaultAlgorithm() Algorithm {
	return Algorithm(defaultAlg.Load())
}

// CustomHash hashes a byte buffer with FNV-1a, the default algorithm.
// NUL bytes are skipped so a name read with or without its terminator
// hashes the same. Only len(buffer) bytes are ever read.
func CustomHash(buffer []byte) uint32 {
	h := fnvOffsetBasis
	for _, b := range buffer {
		if b == 0 {
			continue
		}
		h = (h ^ uint32(b)) * fnvPrime
	}
	return h
}

func djb2Hash(buffer []byte) uint32 {
	var h uint32 = 5381
	for _, b := range buffer {
		if b == 0 {
			continue
		}
		if b >= 'A' && b <= 'Z' {
			b += 0x20
		}
		h = ((h << 5) + h) + uint32(b)
	}
	return h
}

func xxh64Hash(buffer []byte) uint32 {
	sum := xxhash.Sum64(buffer)
	return uint32(sum ^ (sum >> 32))
}

var (
	hashCache      = make(map[string]uint32)
	hashCacheMutex sync.RWMutex

	collisionDetector = make(map[uint32]string)
	collisionMutex    sync.RWMutex
)

// GetHash returns the default-algorithm hash of s, memoizing repeated
// lookups.
func GetHash(s string) uint32 {
	hashCacheMutex.RLock()
	if hash, ok := hashCache[s]; ok {
		hashCacheMutex.RUnlock()
		return hash
	}
	hashCacheMutex.RUnlock()

	hash := GetHashWithAlgorithm(s, DefaultAlgorithm())

	hashCacheMutex.Lock()
	hashCache[s] = hash
	hashCacheMutex.Unlock()

	detectHashCollision(hash, s)

	return hash
}

// GetHashWithAlgorithm hashes s with an explicit algorithm. Results are
// not cached; the build-time tooling is the main caller.
func GetHashWithAlgorithm(s string, algorithm Algorithm) uint32 {
	switch algorithm {
	case AlgDJB2:
		return djb2Hash([]byte(s))
	case AlgXXH64:
		return xxh64Hash([]byte(s))
	default:
		return CustomHash([]byte(s))
	}
}

func detectHashCollision(hash uint32, newString string) {
	collisionMutex.Lock()
	defer collisionMutex.Unlock()

	if existingString, exists := collisionDetector[hash]; exists {
		if existingString != newString {
			level.Warn(getLogger()).Log(
				"msg", "hash collision detected",
				"hash", hash,
				"existing", existingString,
				"new", newString,
			)
		}
	} else {
		collisionDetector[hash] = newString
	}
}

// ClearHashCache drops the memoized hashes and the collision table.
func ClearHashCache() {
	hashCacheMutex.Lock()
	defer hashCacheMutex.Unlock()

	collisionMutex.Lock()
	defer collisionMutex.Unlock()

	hashCache = make(map[string]uint32)
	collisionDetector = make(map[uint32]string)
}

// GetHashCacheStats reports cache occupancy and observed collisions.
func GetHashCacheStats() map[string]interface{} {
	hashCacheMutex.RLock()
	defer hashCacheMutex.RUnlock()

	collisionMutex.RLock()
	defer collisionMutex.RUnlock()

	collisions := 0
	uniqueHashes := len(collisionDetector)
	totalEntries := len(hashCache)

	if totalEntries > uniqueHashes {
		collisions = totalEntries - uniqueHashes
	}

	return map[string]interface{}{
		"total_entries": totalEntries,
		"unique_hashes": uniqueHashes,
		"collisions":    collisions,
	}
}

// NormalizeModuleName lower-cases a loader-reported module name. The
// loader reports base names in whatever case the image carried, so module
// hints hash the normalized form.
func NormalizeModuleName(name string) string {
	return strings.ToLower(name)
}

// GetModuleHash hashes a module name after normalization. Use this, not
// GetHash, when computing a module hint.
func GetModuleHash(name string) uint32 {
	return GetHash(NormalizeModuleName(name))
}
