package game

// Disk is the content of a single board cell.
type Disk int8

const (
	Empty Disk = iota
	Black      // Maximizing player, moves first
	White      // Minimizing player
)

// Opponent returns the other player. Empty has no opponent.
func Opponent(d Disk) Disk {
	switch d {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// IsMaximizer reports whether the player maximizes the board evaluation.
func IsMaximizer(d Disk) bool {
	return d == Black
}

func (d Disk) String() string {
	switch d {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	default:
		return "EMPTY"
	}
}

// Symbol is the console rendering of the disk.
func (d Disk) Symbol() string {
	switch d {
	case Black:
		return "X"
	case White:
		return "O"
	default:
		return "."
	}
}
