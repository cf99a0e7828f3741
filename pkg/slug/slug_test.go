// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/pkg/slug"
)

/*
TestFrom normalizes accents, case and punctuation.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Django", "django"},
		{"Déjà Vu", "deja-vu"},
		{"  C++ & Go!  ", "c-go"},
		{"python--tips", "python-tips"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slug.From(tt.in), tt.in)
	}
}

/*
TestUnique appends the first free numeric suffix.
*/
func TestUnique(t *testing.T) {
	taken := map[string]bool{"c": true, "c-1": true}
	has := func(candidate string) bool { return taken[candidate] }

	assert.Equal(t, "go", slug.Unique("go", has))
	assert.Equal(t, "c-2", slug.Unique("c", has))
}
