package circuit

import (
	"fmt"
	"io"
	"strings"
)

// qasmNames maps tape gate names to their OpenQASM 3.0 spellings.
var qasmNames = map[string]string{
	GateH:    "h",
	GateX:    "x",
	GateY:    "y",
	GateZ:    "z",
	GateS:    "s",
	GateT:    "t",
	GateRY:   "ry",
	GateRZ:   "rz",
	GateCNOT: "cx",
	GateCCX:  "ccx",
}

// ExportQASM writes the tape as an OpenQASM 3.0 program, including a final
// measurement of all qubits into classical bits.
func ExportQASM(w io.Writer, numQubits int, tape []Gate) error {
	var b strings.Builder

	b.WriteString("OPENQASM 3.0;\n")
	b.WriteString("include \"stdgates.inc\";\n")
	fmt.Fprintf(&b, "qubit[%d] q;\n", numQubits)
	fmt.Fprintf(&b, "bit[%d] c;\n\n", numQubits)

	for _, g := range tape {
		name, ok := qasmNames[g.Name]
		if !ok {
			return &ErrUnknownGate{Name: g.Name}
		}
		b.WriteString(name)
		if len(g.Params) > 0 {
			b.WriteByte('(')
			for i, p := range g.Params {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%g", p)
			}
			b.WriteByte(')')
		}
		b.WriteByte(' ')
		for i, q := range g.Qubits {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "q[%d]", q)
		}
		b.WriteString(";\n")
	}

	b.WriteString("\nc = measure q;\n")

	_, err := io.WriteString(w, b.String())
	return err
}
