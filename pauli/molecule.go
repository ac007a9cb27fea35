package pauli

// Molecule selects one of the built-in molecular Hamiltonians.
type Molecule int

const (
	// H2 is molecular hydrogen at a bond distance of 0.7414 Å, mapped to
	// two qubits (parity mapping). Coefficients in Hartrees, from standard
	// quantum chemistry datasets.
	H2 Molecule = iota
	// LiH is a simplified two-qubit stand-in for lithium hydride.
	LiH
)

// String returns a string representation of the Molecule.
func (m Molecule) String() string {
	switch m {
	case H2:
		return "H2"
	case LiH:
		return "LiH"
	default:
		return "Unknown"
	}
}

// NumQubits returns the register size the molecule's Hamiltonian needs.
func (m Molecule) NumQubits() int {
	return 2
}

// Hamiltonian returns the molecule's qubit Hamiltonian.
func (m Molecule) Hamiltonian() Hamiltonian {
	switch m {
	case H2:
		return Hamiltonian{
			{Coefficient: -1.052373245772859, String: "II"},
			{Coefficient: 0.397937424843187, String: "IZ"},
			{Coefficient: -0.397937424843187, String: "ZI"},
			{Coefficient: -0.011280104256235, String: "ZZ"},
			{Coefficient: 0.180931199784231, String: "XX"},
		}
	case LiH:
		return Hamiltonian{
			{Coefficient: -7.86, String: "II"},
		}
	default:
		return nil
	}
}
