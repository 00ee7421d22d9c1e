// Package target describes the host ABI the lexer and downstream stages
// size numeric literals and calling conventions against.
package target

import (
	"runtime"

	"github.com/aledsdavies/glavnac/pkg/diag"
)

// Arch is the supported architecture tag.
type Arch int

const (
	X86 Arch = iota
	X86_64
	Unknown
)

func (a Arch) String() string {
	switch a {
	case X86:
		return "x86"
	case X86_64:
		return "x86-64"
	default:
		return "unknown"
	}
}

// Endianness is always little for both supported targets; the field
// exists so the record shape matches the spec even though only one
// value is ever produced today.
type Endianness int

const (
	LittleEndian Endianness = iota
)

// Registers names the general-purpose, argument-passing, and return
// registers of a target.
type Registers struct {
	GeneralPurpose []string
	Arguments      []string
	Return         string
}

// CallingConvention records how arguments are passed and the stack is
// cleaned up.
type CallingConvention struct {
	Kind              string
	ArgumentRegisters []string
	ReturnRegister    string
	CallerCleansStack bool
	RequiredAlignment int
}

// Info is a read-only descriptor consumed by the lexer (for
// numeric-literal bounds) and handed to downstream stages.
type Info struct {
	Arch          Arch
	WordSize      int
	PointerSize   int
	Endian        Endianness
	StackAlign    int
	AsmSyntax     string
	Registers     Registers
	CallConv      CallingConvention
}

// Detect maps runtime.GOARCH onto the supported architecture tags. Any
// architecture other than 386/amd64 is reported as Unknown.
func Detect() Arch {
	switch runtime.GOARCH {
	case "386":
		return X86
	case "amd64":
		return X86_64
	default:
		return Unknown
	}
}

// Init detects the host architecture and populates an Info record. An
// unknown architecture emits a Warning on r and falls back to x86-64
// defaults.
func Init(r *diag.Registry) Info {
	arch := Detect()
	if arch == Unknown {
		r.Report(diag.IO, diag.Warning, "<target>", 0, 0,
			"unrecognized host architecture; falling back to x86-64 defaults", "", "target.go", 0)
		arch = X86_64
	}
	return InitArch(arch)
}

// InitArch forces a specific target regardless of the host architecture.
func InitArch(arch Arch) Info {
	switch arch {
	case X86:
		return Info{
			Arch:        X86,
			WordSize:    4,
			PointerSize: 4,
			Endian:      LittleEndian,
			StackAlign:  4,
			AsmSyntax:   "intel",
			Registers: Registers{
				GeneralPurpose: []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp"},
				Arguments:      []string{}, // cdecl passes arguments on the stack
				Return:         "eax",
			},
			CallConv: CallingConvention{
				Kind:              "cdecl",
				ArgumentRegisters: []string{},
				ReturnRegister:    "eax",
				CallerCleansStack: true,
				RequiredAlignment: 4,
			},
		}
	default: // X86_64 and any forced-unknown fallback
		return Info{
			Arch:        X86_64,
			WordSize:    8,
			PointerSize: 8,
			Endian:      LittleEndian,
			StackAlign:  16,
			AsmSyntax:   "intel",
			Registers: Registers{
				GeneralPurpose: []string{"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp", "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"},
				Arguments:      []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"},
				Return:         "rax",
			},
			CallConv: CallingConvention{
				Kind:              "System V AMD64",
				ArgumentRegisters: []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"},
				ReturnRegister:    "rax",
				CallerCleansStack: false,
				RequiredAlignment: 16,
			},
		}
	}
}
