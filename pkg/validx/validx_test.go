package validx_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/validx"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email"    validate:"required,max=100,email"`
	Password string `json:"password" validate:"required,min=8,max=100,password"`
}

func TestStruct(t *testing.T) {
	v := validx.New()

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, v.Struct(signup{Username: "alice", Email: "a@x.com", Password: "Str0ngPass1"}))
	})

	tests := []struct {
		name  string
		in    signup
		field string
		msg   string
	}{
		{"missing username", signup{Email: "a@x.com", Password: "Str0ngPass1"}, "username", "username is required"},
		{"short username", signup{Username: "al", Email: "a@x.com", Password: "Str0ngPass1"}, "username", "at least 3"},
		{"bad username chars", signup{Username: "al ice!", Email: "a@x.com", Password: "Str0ngPass1"}, "username", "letters, digits and underscores"},
		{"bad email", signup{Username: "alice", Email: "nope", Password: "Str0ngPass1"}, "email", "valid email"},
		{"long email", signup{Username: "alice", Email: strings.Repeat("a", 95) + "@x.com", Password: "Str0ngPass1"}, "email", "at most 100"},
		{"weak password", signup{Username: "alice", Email: "a@x.com", Password: "alllowercase1"}, "password", "upper case"},
		{"short password", signup{Username: "alice", Email: "a@x.com", Password: "Ab1"}, "password", "at least 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)

			var fe validx.FieldErrors
			require.ErrorAs(t, err, &fe)
			require.Contains(t, fe, tt.field)
			require.Contains(t, fe[tt.field], tt.msg)
		})
	}
}

func TestFieldErrorsMessageIsStable(t *testing.T) {
	fe := validx.FieldErrors{"b": "b is bad", "a": "a is bad"}
	require.Equal(t, "a is bad; b is bad", fe.Error())
}

func TestStrongPassword(t *testing.T) {
	require.True(t, validx.StrongPassword("Str0ngPass1"))
	require.False(t, validx.StrongPassword("str0ngpass1"))
	require.False(t, validx.StrongPassword("STR0NGPASS1"))
	require.False(t, validx.StrongPassword("StrongPass"))
}
