package idx

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// PublicID is the externally safe identifier handed to clients. It carries no
// timestamp or ordering information, unlike ID.
type PublicID string

// ErrInvalidPublic reports a malformed public identifier.
var ErrInvalidPublic = errors.New("idx: invalid public id")

// NewPublic returns a random (v4) public identifier.
func NewPublic() PublicID {
	return PublicID(uuid.NewString())
}

// ParsePublic validates s and returns it in canonical lowercase form.
func ParsePublic(s string) (PublicID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidPublic
	}
	return PublicID(u.String()), nil
}

func (p PublicID) String() string { return string(p) }
