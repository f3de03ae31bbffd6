package token

import (
	"testing"

	"github.com/iov-one/custody/errors"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		in       string
		decimals uint8
		want     uint64
		wantErr  *errors.Error
	}{
		"integer":               {in: "12", decimals: 2, want: 1200},
		"fraction":              {in: "12.5", decimals: 2, want: 1250},
		"no decimals":           {in: "7", decimals: 0, want: 7},
		"too precise":           {in: "0.001", decimals: 2, wantErr: errors.ErrPrecision},
		"negative":              {in: "-1", decimals: 2, wantErr: errors.ErrAmount},
		"garbage":               {in: "ten", decimals: 2, wantErr: errors.ErrAmount},
		"max":                   {in: "18446744073709551615", decimals: 0, want: 18446744073709551615},
		"overflow":              {in: "18446744073709551616", decimals: 0, wantErr: errors.ErrOverflow},
		"trailing zeros are ok": {in: "1.500", decimals: 1, want: 15},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAmount(tc.in, tc.decimals)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   uint64
		decimals uint8
		want     string
	}{
		{1500, 2, "15"},
		{1250, 2, "12.5"},
		{1, 6, "0.000001"},
		{0, 9, "0"},
		{42, 0, "42"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.amount, tc.decimals); got != tc.want {
			t.Errorf("%d/%d: want %q, got %q", tc.amount, tc.decimals, tc.want, got)
		}
	}
}
