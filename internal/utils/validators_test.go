package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+33 6 12 34 56 78", true},
		{"06.12.34.56.78", true},
		{"(514) 555-0100", true},
		{"12345", false},
		{"appelez-moi", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidPhone(tt.phone), tt.phone)
	}
}

func TestIsValidPersonName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"Jean-Pierre", true},
		{"Zoé O'Neil", true},
		{"Ana", true},
		{"R2D2", false},
		{"-Jean", false},
		{"<script>", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidPersonName(tt.name), tt.name)
	}
}

func TestRegisterOn(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	type form struct {
		Name  string `validate:"required,personname"`
		Phone string `validate:"required,phone"`
	}

	assert.NoError(t, v.Struct(form{Name: "Zoé", Phone: "+33 6 12 34 56 78"}))
	assert.Error(t, v.Struct(form{Name: "Zoé", Phone: "abc"}))
	assert.Error(t, v.Struct(form{Name: "123", Phone: "0612345678"}))
}
