package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/fundbridge/fundbridge/application/port/outbound"
)

// BcryptService hashes operator passwords with bcrypt.
type BcryptService struct {
	cost int
}

// NewBcryptService creates a password service with the given bcrypt cost.
func NewBcryptService(cost int) outbound.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

func (s *BcryptService) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *BcryptService) Verify(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
