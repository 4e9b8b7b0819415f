package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCandidateNames(t *testing.T) {
	tests := []struct {
		name      string
		container string
		lookup    string
		want      []string
	}{
		{
			name:      "nested container expands outward",
			container: "a.b.c",
			lookup:    "x.y",
			want:      []string{"a.b.c.x.y", "a.b.x.y", "a.x.y", "x.y"},
		},
		{
			name:      "root container returns name as-is",
			container: "",
			lookup:    "x.y",
			want:      []string{"x.y"},
		},
		{
			name:      "already-qualified name short circuits",
			container: "a.b.c",
			lookup:    "a.b.c.x",
			want:      []string{"a.b.c.x"},
		},
		{
			name:      "leading dot stripped",
			container: "a.b",
			lookup:    ".x",
			want:      []string{"a.b.x", "a.x", "x"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewContainer(tc.container)
			assert.Equal(t, tc.want, c.ResolveCandidateNames(tc.lookup))
		})
	}
}

func TestExtend(t *testing.T) {
	c := NewContainer("a.b")
	child := c.Extend("c")
	assert.Equal(t, "a.b", c.Name(), "Extend must not mutate the parent")
	assert.Equal(t, "a.b.c", child.Name())
}
