package asm

import (
	"strings"
)

// SectionKind identifies a segment of the binary image.
type SectionKind int

const (
	SECTION_UNKNOWN = SectionKind(iota)
	SECTION_DATA    // Read-only data segment.
	SECTION_CODE    // Code segment.
)

func (kind SectionKind) String() string {
	switch kind {
	case SECTION_DATA:
		return "data"
	case SECTION_CODE:
		return "code"
	}
	return "unknown"
}

// sectionOf returns the section kind named by a directive.
func sectionOf(directive string) SectionKind {
	switch strings.ToLower(directive) {
	case "data":
		return SECTION_DATA
	case "code":
		return SECTION_CODE
	}
	return SECTION_UNKNOWN
}

// Section is a section declaration, and the instruction that opened it.
type Section struct {
	Kind                SectionKind
	StartingInstruction int
}
