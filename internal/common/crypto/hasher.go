package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher stores salted bcrypt digests. Zero Cost means constants.DefaultBcryptCost.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h *BcryptHasher) cost() int {
	if h.Cost < bcrypt.MinCost || h.Cost > bcrypt.MaxCost {
		return constants.DefaultBcryptCost
	}
	return h.Cost
}

// Verify reports whether password matches hash. Malformed digests never match.
func Verify(h PasswordHasher, hash, password string) bool {
	return h.Compare(hash, password) == nil
}
