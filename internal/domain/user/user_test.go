package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainuser "rentzy/internal/domain/user"
)

func validParams() domainuser.CreateParams {
	return domainuser.CreateParams{
		Name:         "Priya Sharma",
		Email:        "priya@example.com",
		Phone:        "+919876543210",
		NationalID:   "1234 5678 9012",
		TaxID:        "abcde1234f",
		PasswordHash: "$2a$10$hash",
		Role:         domainuser.RoleRenter,
	}
}

func TestNewUserNormalizes(t *testing.T) {
	params := validParams()
	params.Email = " Priya@Example.COM "
	params.Phone = "+91 98765 43210"

	u, err := domainuser.NewUser(params)
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", u.Email)
	assert.Equal(t, "+919876543210", u.Phone)
	assert.Equal(t, "123456789012", u.NationalID)
	assert.Equal(t, "ABCDE1234F", u.TaxID)
	assert.False(t, u.Verified)
}

func TestNewUserValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domainuser.CreateParams)
		want   error
	}{
		{"blank name", func(p *domainuser.CreateParams) { p.Name = "  " }, domainuser.ErrNameRequired},
		{"bad email", func(p *domainuser.CreateParams) { p.Email = "not-an-email" }, domainuser.ErrInvalidEmail},
		{"short phone", func(p *domainuser.CreateParams) { p.Phone = "12345" }, domainuser.ErrInvalidPhone},
		{"phone with letters", func(p *domainuser.CreateParams) { p.Phone = "98765abc43" }, domainuser.ErrInvalidPhone},
		{"national id too short", func(p *domainuser.CreateParams) { p.NationalID = "12345678901" }, domainuser.ErrInvalidNationalID},
		{"tax id wrong shape", func(p *domainuser.CreateParams) { p.TaxID = "1234ABCDE5" }, domainuser.ErrInvalidTaxID},
		{"missing hash", func(p *domainuser.CreateParams) { p.PasswordHash = "" }, domainuser.ErrPasswordHashMissing},
		{"bad role", func(p *domainuser.CreateParams) { p.Role = "admin" }, domainuser.ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			_, err := domainuser.NewUser(params)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := domainuser.ParseRole(" Owner ")
	require.NoError(t, err)
	assert.Equal(t, domainuser.RoleOwner, role)

	role, err = domainuser.ParseRole("renter")
	require.NoError(t, err)
	assert.Equal(t, domainuser.RoleRenter, role)

	_, err = domainuser.ParseRole("admin")
	assert.ErrorIs(t, err, domainuser.ErrInvalidRole)
}
