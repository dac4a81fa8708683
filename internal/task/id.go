package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	shortIDLength = 12
	crockfordBase = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

	// MinRefLength is the shortest short-id prefix [Store.Resolve] accepts.
	MinRefLength = 4
)

// ErrAmbiguousRef reports a short-id prefix matching more than one task.
var ErrAmbiguousRef = errors.New("ambiguous task reference")

// ShortID derives the 12-char Crockford base32 handle shown to users. For
// UUIDv7 ids it is built from the random bits, since the leading time bits
// are shared by tasks created close together. Other ids (legacy numeric
// ones) are returned unchanged.
func ShortID(id ID) string {
	u, err := uuid.Parse(string(id))
	if err != nil || u.Version() != 7 {
		return string(id)
	}

	return shortIDFromUUIDBits(u)
}

func encodeCrockfordBase32(value uint64) string {
	var buf [shortIDLength]byte
	for i := shortIDLength - 1; i >= 0; i-- {
		buf[i] = crockfordBase[value&0x1f]
		value >>= 5
	}

	return string(buf[:])
}

func shortIDFromUUIDBits(id uuid.UUID) string {
	// UUIDv7 layout (RFC 9562): 48-bit time, 4-bit version, 12-bit rand_a,
	// 2-bit variant, 62-bit rand_b. The high 60 random bits make the short ID.
	randA := (uint16(id[6]&0x0f) << 8) | uint16(id[7])
	randB := (uint64(id[8]&0x3f) << 56) |
		(uint64(id[9]) << 48) |
		(uint64(id[10]) << 40) |
		(uint64(id[11]) << 32) |
		(uint64(id[12]) << 24) |
		(uint64(id[13]) << 16) |
		(uint64(id[14]) << 8) |
		uint64(id[15])

	top60 := (uint64(randA) << 48) | (randB >> 14)

	return encodeCrockfordBase32(top60)
}

// Resolve maps a user-supplied reference to a task id. The reference is
// either a full id or a case-insensitive prefix (at least [MinRefLength]
// chars) of a short id.
func (s *Store) Resolve(ref string) (ID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	if s.index(ID(ref)) >= 0 {
		return ID(ref), nil
	}

	if len(ref) < MinRefLength {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	prefix := strings.ToUpper(ref)

	var found []ID

	for _, t := range s.tasks {
		if strings.HasPrefix(strings.ToUpper(ShortID(t.ID)), prefix) {
			found = append(found, t.ID)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousRef, ref, len(found))
	}
}
