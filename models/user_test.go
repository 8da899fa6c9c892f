package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatar(t *testing.T) {
	u := User{Username: "john", Email: "john@example.com"}
	assert.Equal(t, "https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=identicon&s=128", u.Avatar(128))

	u.Email = "John@Example.com"
	assert.Equal(t, "https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=identicon&s=36", u.Avatar(36))
}
