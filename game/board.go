package game

import (
	"fmt"
	"strings"
)

var directions = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// Board holds the disks of a width x height grid. Boards are values owned by a
// single search frame: copy before simulating a move if the original is still needed.
type Board struct {
	Width  int
	Height int
	cells  []Disk // Indexed by x*Height + y
}

// NewBoard returns an empty board.
func NewBoard(width, height int) *Board {
	return &Board{
		Width:  width,
		Height: height,
		cells:  make([]Disk, width*height),
	}
}

// Standard returns a board with the four centre disks placed the usual way
// (white on the main diagonal, black on the other).
func Standard(width, height int) *Board {
	b := NewBoard(width, height)
	cx, cy := width/2-1, height/2-1
	b.Init(
		[]Position{{cx, cy}, {cx + 1, cy + 1}},
		[]Position{{cx + 1, cy}, {cx, cy + 1}},
	)
	return b
}

// Init clears the board and places the starting disks.
func (b *Board) Init(white, black []Position) {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	for _, p := range white {
		b.Set(p, White)
	}
	for _, p := range black {
		b.Set(p, Black)
	}
}

// FromCells rebuilds a board from its cells in x-major order.
func FromCells(width, height int, cells []Disk) (*Board, error) {
	if len(cells) != width*height {
		return nil, fmt.Errorf("board %dx%d needs %d cells, got %d", width, height, width*height, len(cells))
	}
	b := NewBoard(width, height)
	copy(b.cells, cells)
	return b, nil
}

// Cells returns a copy of the cells in x-major order.
func (b *Board) Cells() []Disk {
	out := make([]Disk, len(b.cells))
	copy(out, b.cells)
	return out
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	c := &Board{Width: b.Width, Height: b.Height, cells: make([]Disk, len(b.cells))}
	copy(c.cells, b.cells)
	return c
}

func (b *Board) index(x, y int) int {
	return x*b.Height + y
}

// InRange reports whether (x, y) lies on the board.
func (b *Board) InRange(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Get returns the disk at p.
func (b *Board) Get(p Position) Disk {
	return b.cells[b.index(p.X, p.Y)]
}

// Set places a disk at p without flipping anything.
func (b *Board) Set(p Position, d Disk) {
	b.cells[b.index(p.X, p.Y)] = d
}

func (b *Board) at(x, y int) Disk {
	return b.cells[b.index(x, y)]
}

// IsValidMove reports whether player may place a disk at p.
func (b *Board) IsValidMove(player Disk, p Position) bool {
	if !b.InRange(p.X, p.Y) || b.at(p.X, p.Y) != Empty {
		return false
	}
	for _, dir := range directions {
		if b.flanks(player, p.X, p.Y, dir[0], dir[1]) {
			return true
		}
	}
	return false
}

// flanks reports whether a disk placed at (x, y) would enclose a run of
// opponent disks in direction (dx, dy).
func (b *Board) flanks(player Disk, x, y, dx, dy int) bool {
	opp := Opponent(player)
	nx, ny := x+dx, y+dy
	if !b.InRange(nx+dx, ny+dy) || b.at(nx, ny) != opp {
		return false
	}
	for nx, ny = nx+dx, ny+dy; b.InRange(nx, ny); nx, ny = nx+dx, ny+dy {
		switch b.at(nx, ny) {
		case player:
			return true
		case Empty:
			return false
		}
	}
	return false
}

// LegalMoves lists the positions player may play, scanning columns left to right
// and each column top to bottom.
func (b *Board) LegalMoves(player Disk) []Position {
	var moves []Position
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			p := Position{x, y}
			if b.IsValidMove(player, p) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

// HasMoves reports whether player has at least one legal move.
func (b *Board) HasMoves(player Disk) bool {
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if b.IsValidMove(player, Position{x, y}) {
				return true
			}
		}
	}
	return false
}

// Play places player's disk at p and flips every enclosed run. The move is
// assumed legal. The board is mutated in place.
func (b *Board) Play(player Disk, p Position) {
	for _, dir := range directions {
		if !b.flanks(player, p.X, p.Y, dir[0], dir[1]) {
			continue
		}
		for nx, ny := p.X+dir[0], p.Y+dir[1]; b.at(nx, ny) != player; nx, ny = nx+dir[0], ny+dir[1] {
			b.cells[b.index(nx, ny)] = player
		}
	}
	b.Set(p, player)
}

// IsTerminal reports whether neither player can move.
func (b *Board) IsTerminal() bool {
	return !b.HasMoves(Black) && !b.HasMoves(White)
}

// Count returns the number of d disks on the board.
func (b *Board) Count(d Disk) int {
	n := 0
	for _, c := range b.cells {
		if c == d {
			n++
		}
	}
	return n
}

// Render draws the board for the console, marking current's legal moves with '?'.
func (b *Board) Render(current Disk) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "     %s (%s)\n   ", current, current.Symbol())
	for x := 0; x < b.Width; x++ {
		fmt.Fprintf(&sb, "%c ", 'A'+rune(x))
	}
	sb.WriteString("\n")
	for y := 0; y < b.Height; y++ {
		fmt.Fprintf(&sb, "%-3d", y+1)
		for x := 0; x < b.Width; x++ {
			p := Position{x, y}
			switch {
			case b.at(x, y) != Empty:
				sb.WriteString(b.at(x, y).Symbol())
			case current != Empty && b.IsValidMove(current, p):
				sb.WriteString("?")
			default:
				sb.WriteString(".")
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.Render(Empty)
}
