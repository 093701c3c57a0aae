package dataprocessing

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

func TestCanonicalizeIdentifier(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"52123456", "52-123456"},
		{"53-000001", "53-000001"},
		{"  53-000001  ", "53-000001"},
		{"52 123 456", "52-123456"},
		{"52/123456", "52-123456"},
		{"TR52123456", "52-123456"},
		{"5212345", "5212345"},
		{"521234567", "521234567"},
		{"  ABC-DEF-GHI ", "ABC-DEF-GHI"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeIdentifier(tt.raw))
		})
	}
}

func TestIsCanonicalIdentifier(t *testing.T) {
	assert.True(t, IsCanonicalIdentifier("52-123456"))
	assert.False(t, IsCanonicalIdentifier("52123456"))
	assert.False(t, IsCanonicalIdentifier("521-23456"))
}

func TestRowFilter(t *testing.T) {
	filter := NewRowFilter(nil)

	tests := []struct {
		name  string
		first string
		want  domain.DiagnosticReason
	}{
		{"canonical id", "52-123456", ""},
		{"eight digits", "52123456", ""},
		{"six characters", "ABCDEF", ""},
		{"five characters", "12345", domain.ReasonShortIdentifier},
		{"empty", "", domain.ReasonShortIdentifier},
		{"padded short", "   12345   ", domain.ReasonShortIdentifier},
		{"sequence header", "ลำดับที่ 1", domain.ReasonReservedWord},
		{"sequence header alone", "ลำดับ", domain.ReasonShortIdentifier},
		{"authority prefix", "PEA No. 52123456", domain.ReasonReservedWord},
		{"authority lower case", "pea-52123456", domain.ReasonReservedWord},
		{"code header", "รหัสหม้อแปลง", domain.ReasonReservedWord},
		{"english header", "TRANSFORMER ID", domain.ReasonReservedWord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Reason(tt.first))
			assert.Equal(t, tt.want == "", filter.Accept(tt.first))
		})
	}
}

func TestRowFilterCustomWords(t *testing.T) {
	filter := NewRowFilter([]string{" Total ", ""})

	assert.False(t, filter.Accept("Grand total 52123456"))
	assert.True(t, filter.Accept("PEA 52123456"))
}

func TestPlaceholderIdentifier(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pattern := regexp.MustCompile(`^TR-\d{1,5}$`)

	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, PlaceholderIdentifier(rng))
	}

	a := PlaceholderIdentifier(rand.New(rand.NewSource(1)))
	b := PlaceholderIdentifier(rand.New(rand.NewSource(1)))
	assert.Equal(t, a, b)
}
