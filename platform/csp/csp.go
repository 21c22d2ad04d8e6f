// Package csp provides Content-Security-Policy header manipulation.
// This is part of the platform layer and contains no business logic.
package csp

import "strings"

// Policy is an ordered set of CSP directives. Directive order is preserved
// from parsing so a merged header stays recognizable next to the original.
type Policy struct {
	order      []string
	directives map[string][]string
}

// NewPolicy creates an empty policy.
func NewPolicy() *Policy {
	return &Policy{directives: make(map[string][]string)}
}

// Parse reads a Content-Security-Policy header value into a Policy.
// Malformed segments (no directive name) are skipped.
func Parse(header string) *Policy {
	p := NewPolicy()
	for _, segment := range strings.Split(header, ";") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		p.Add(strings.ToLower(fields[0]), fields[1:]...)
	}
	return p
}

// Add appends sources to a directive, creating it if absent and skipping
// sources the directive already lists.
func (p *Policy) Add(directive string, sources ...string) {
	if _, ok := p.directives[directive]; !ok {
		p.order = append(p.order, directive)
	}
	for _, source := range sources {
		if !contains(p.directives[directive], source) {
			p.directives[directive] = append(p.directives[directive], source)
		}
	}
}

// Merge folds another policy's directives into this one.
func (p *Policy) Merge(other *Policy) {
	for _, directive := range other.order {
		p.Add(directive, other.directives[directive]...)
	}
}

// Sources returns the sources for a directive.
func (p *Policy) Sources(directive string) []string {
	return p.directives[directive]
}

// Empty reports whether the policy has no directives.
func (p *Policy) Empty() bool {
	return len(p.order) == 0
}

// Render serializes the policy back to a header value.
func (p *Policy) Render() string {
	segments := make([]string, 0, len(p.order))
	for _, directive := range p.order {
		sources := p.directives[directive]
		if len(sources) == 0 {
			segments = append(segments, directive)
			continue
		}
		segments = append(segments, directive+" "+strings.Join(sources, " "))
	}
	return strings.Join(segments, "; ")
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
