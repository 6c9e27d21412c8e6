package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes passwords and verifies plaintexts against stored hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) bool
}

type bcryptHasher struct {
	cost int
}

// Bcrypt returns a Hasher backed by bcrypt with the default cost.
func Bcrypt() Hasher {
	return bcryptHasher{cost: bcrypt.DefaultCost}
}

func (b bcryptHasher) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b bcryptHasher) Verify(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
