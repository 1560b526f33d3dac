package scraper

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://www.trademe.co.nz/a/property/residential/sale/listing/123",
		"http://example.co.nz/listing/1",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v; want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.co.nz/listing",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"https://",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) = %v; want ErrInvalidURL", u, err)
		}
	}
}
