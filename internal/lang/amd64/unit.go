package amd64

import "strings"

// Unit is an assembly file: sections of labels, each with optional local sub-labels.
type Unit struct {
	sections []*Section
}

// Section is a named section such as .data or .text.
type Section struct {
	Name   string
	Labels []*Label
}

// Label is a symbol followed by instructions. Locals are rendered as
// "label/local" after the label's own body.
type Label struct {
	Name   string
	Global bool
	Body   []Instruction
	Locals []Local
}

// Local is a sub-label of a Label.
type Local struct {
	Name string
	Body []Instruction
}

// Section returns the section named name, appending it if it does not exist yet.
func (u *Unit) Section(name string) *Section {
	for _, s := range u.sections {
		if s.Name == name {
			return s
		}
	}
	s := &Section{Name: name}
	u.sections = append(u.sections, s)
	return s
}

// Sections returns the sections in creation order.
func (u *Unit) Sections() []*Section {
	return u.sections
}

// AddLabel appends a label with body.
func (s *Section) AddLabel(name string, global bool, body []Instruction) *Label {
	l := &Label{Name: name, Global: global, Body: body}
	s.Labels = append(s.Labels, l)
	return l
}

// AddLocal appends a local sub-label.
func (l *Label) AddLocal(name string, body []Instruction) {
	l.Locals = append(l.Locals, Local{Name: name, Body: body})
}

// LocalName returns the full symbol name of a local sub-label.
func LocalName(label, local string) string {
	return label + "/" + local
}

// String renders the unit in GAS Intel syntax.
func (u *Unit) String() string {
	var b strings.Builder
	b.WriteString(".intel_syntax noprefix\n")
	for _, s := range u.sections {
		b.WriteString(".section " + s.Name + "\n")
		for _, l := range s.Labels {
			if l.Global {
				b.WriteString(".global " + Symbol(l.Name).String() + "\n")
			}
			writeBody(&b, l.Name, l.Body)
			for _, local := range l.Locals {
				writeBody(&b, LocalName(l.Name, local.Name), local.Body)
			}
		}
	}
	return b.String()
}

func writeBody(b *strings.Builder, name string, body []Instruction) {
	b.WriteString(Symbol(name).String() + ":\n")
	for _, in := range body {
		b.WriteString("\t" + in.String() + "\n")
	}
}
