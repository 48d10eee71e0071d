package security

import "golang.org/x/crypto/bcrypt"

// BCryptEncoder hashes passwords with bcrypt.
type BCryptEncoder struct {
	cost int
}

// NewBCryptEncoder returns an encoder using cost, or bcrypt.DefaultCost when
// cost is outside the range bcrypt accepts.
func NewBCryptEncoder(cost int) *BCryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BCryptEncoder{cost: cost}
}

func (e *BCryptEncoder) Encode(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (e *BCryptEncoder) Matches(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
