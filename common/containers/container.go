// Package containers implements CEL's container-qualified name resolution:
// given a dotted namespace prefix, produce the ordered list of candidate
// fully-qualified names a bare or partially-qualified reference might mean.
package containers

import "strings"

// Container holds a dotted namespace used to resolve relative names, as
// described in spec §4.2.
type Container struct {
	name string
}

// NewContainer returns a Container rooted at the given dotted namespace
// (e.g. "a.b.c"). An empty string is the root container.
func NewContainer(name string) *Container {
	return &Container{name: strings.Trim(name, ".")}
}

// Name returns the container's dotted namespace.
func (c *Container) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// ResolveCandidateNames returns the candidate fully-qualified names for
// name, in decreasing specificity, per spec §4.2: container "a.b.c" with
// name "x.y" yields ["a.b.c.x.y", "a.b.x.y", "a.x.y", "x.y"].
//
// If name already begins with the container's own prefix (or equals the
// container name), the list holds only name exactly as given (it is
// assumed already qualified). Every other name, dotted or not, gets the
// container-qualified forms first and name as given last.
func (c *Container) ResolveCandidateNames(name string) []string {
	name = strings.TrimPrefix(name, ".")
	if c == nil || c.name == "" {
		return []string{name}
	}
	if strings.HasPrefix(name, c.name+".") || name == c.name {
		return []string{name}
	}
	if strings.Contains(name, ".") {
		root := strings.SplitN(name, ".", 2)[0]
		if !strings.HasPrefix(c.name, root) && !strings.HasPrefix(c.name+".", root+".") {
			// name's root isn't a prefix-component of the container;
			// still try container-qualified forms first, but also offer
			// the bare name as a fallback candidate (handled below by
			// the general walk, which always includes it last).
		}
	}

	parts := strings.Split(c.name, ".")
	candidates := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		candidates = append(candidates, strings.Join(parts[:i], ".")+"."+name)
	}
	candidates = append(candidates, name)
	return candidates
}

// Extend returns a new Container nested under a relative name, leaving c
// unmodified (Containers are immutable, matching the environment's
// immutable-until-extend design per spec §3).
func (c *Container) Extend(relative string) *Container {
	base := c.Name()
	relative = strings.Trim(relative, ".")
	if base == "" {
		return NewContainer(relative)
	}
	if relative == "" {
		return NewContainer(base)
	}
	return NewContainer(base + "." + relative)
}
