package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"equipstore/internal/validate"
)

func TestState(t *testing.T) {
	s, ok := validate.State("  lagos ")
	assert.True(t, ok)
	assert.Equal(t, "Lagos", s)

	s, ok = validate.State("abuja")
	assert.True(t, ok)
	assert.Equal(t, "FCT", s)

	_, ok = validate.State("California")
	assert.False(t, ok)
}

func TestPhone(t *testing.T) {
	for _, p := range []string{"08031234567", "+2348031234567", "0703 123 4567"} {
		_, ok := validate.Phone(p)
		assert.True(t, ok, p)
	}
	for _, p := range []string{"12345", "0603123456", ""} {
		_, ok := validate.Phone(p)
		assert.False(t, ok, p)
	}
}

func TestPassword(t *testing.T) {
	assert.True(t, validate.Password("Passw0rd!"))
	assert.False(t, validate.Password("password"))
	assert.False(t, validate.Password("Sh0rt!"))
}

func TestAddressCheck(t *testing.T) {
	a, errs := validate.Address{
		FullName: "Ada Obi", Phone: "08031234567", Street: "3 Allen Avenue", City: "Ikeja", State: "lagos",
	}.Check("shippingAddress")
	assert.Empty(t, errs)
	assert.Equal(t, "Lagos", a.State)
	assert.Equal(t, "Nigeria", a.Country)

	_, errs = validate.Address{FullName: "Ada"}.Check("shippingAddress")
	assert.Contains(t, errs, "shippingAddress.phone")
	assert.Contains(t, errs, "shippingAddress.state")
}
