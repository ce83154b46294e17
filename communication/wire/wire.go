// Package wire encodes messages as binary frames: a fixed header, then the
// fixed-layout job or result records, then one int32 per board cell for each
// job. The body may be zstd compressed.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"othello/communication"
	"othello/game"
	"othello/jobs"
	"othello/searcher"
)

var (
	ErrShortFrame = errors.New("wire: frame too short")
	ErrUnknownTag = errors.New("wire: unknown tag")
)

const (
	flagCompressed uint8 = 1 << iota
	flagResults
	flagAlphaBeta
)

var order = binary.LittleEndian

// Header is the fixed-size prefix of every frame.
type Header struct {
	Tag        communication.Tag
	Flags      uint8
	Count      uint32 // Records in the body
	Width      uint16 // Board size of every job in the frame
	Height     uint16
	BodyLength uint32 // Length of the body as sent, compressed or not
}

var headerSize = binary.Size(Header{})

func (h Header) Compressed() bool {
	return h.Flags&flagCompressed != 0
}

func (h Header) Results() bool {
	return h.Flags&flagResults != 0
}

// DecodedSize is the length of the uncompressed body.
func (h Header) DecodedSize() int {
	if h.Results() {
		return int(h.Count) * resultSize
	}
	return int(h.Count) * (jobSize + 4*int(h.Width)*int(h.Height))
}

type jobRecord struct {
	ID          int32
	ParentID    int32
	Player      int8
	Depth       int32
	Boards      int64
	Width       int32
	Height      int32
	MaxBoards   int64
	CornerValue int32
	EdgeValue   int32
}

type resultRecord struct {
	ID         int32
	ParentID   int32
	Player     int8
	Value      int64
	Boards     int64
	Exhaustive bool
}

var (
	jobSize    = binary.Size(jobRecord{})
	resultSize = binary.Size(resultRecord{})
)

// Codec turns messages into frames and back. It is safe for concurrent use.
type Codec struct {
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewCodec returns a codec that compresses the bodies it writes if compress is
// set. It reads compressed and plain frames either way.
func NewCodec(compress bool) (*Codec, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("wire: zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("wire: zstd decoder: %w", err)
	}
	return &Codec{compress: compress, encoder: encoder, decoder: decoder}, nil
}

func (c *Codec) Close() {
	c.encoder.Close()
	c.decoder.Close()
}

func (c *Codec) Encode(msg communication.Message) ([]byte, error) {
	if msg.Tag < communication.WantWork || msg.Tag > communication.Shutdown {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, msg.Tag)
	}
	if len(msg.Jobs) > 0 && len(msg.Results) > 0 {
		return nil, fmt.Errorf("wire: %s message carries both jobs and results", msg.Tag)
	}

	h := Header{Tag: msg.Tag}
	if msg.AlphaBeta {
		h.Flags |= flagAlphaBeta
	}
	var body bytes.Buffer
	if len(msg.Results) > 0 {
		h.Flags |= flagResults
		h.Count = uint32(len(msg.Results))
		for _, r := range msg.Results {
			binary.Write(&body, order, resultRecord{
				ID:         int32(r.ID),
				ParentID:   int32(r.ParentID),
				Player:     int8(r.Player),
				Value:      int64(r.Value),
				Boards:     int64(r.BoardsAssessed),
				Exhaustive: r.Exhaustive,
			})
		}
	} else if len(msg.Jobs) > 0 {
		h.Count = uint32(len(msg.Jobs))
		h.Width = uint16(msg.Jobs[0].Board.Width)
		h.Height = uint16(msg.Jobs[0].Board.Height)
		if err := writeJobs(&body, h, msg.Jobs); err != nil {
			return nil, err
		}
	}

	payload := body.Bytes()
	if c.compress && len(payload) > 0 {
		h.Flags |= flagCompressed
		payload = c.encoder.EncodeAll(payload, nil)
	}
	h.BodyLength = uint32(len(payload))

	frame := bytes.NewBuffer(make([]byte, 0, headerSize+len(payload)))
	binary.Write(frame, order, h)
	frame.Write(payload)
	return frame.Bytes(), nil
}

func writeJobs(body *bytes.Buffer, h Header, js []jobs.Job) error {
	for _, j := range js {
		if j.Board.Width != int(h.Width) || j.Board.Height != int(h.Height) {
			return fmt.Errorf("wire: %s has a %dx%d board in a %dx%d frame", j, j.Board.Width, j.Board.Height, h.Width, h.Height)
		}
		binary.Write(body, order, jobRecord{
			ID:          int32(j.ID),
			ParentID:    int32(j.ParentID),
			Player:      int8(j.Player),
			Depth:       int32(j.Depth),
			Boards:      int64(j.BoardsAssessed),
			Width:       int32(j.Limits.Width),
			Height:      int32(j.Limits.Height),
			MaxBoards:   int64(j.Limits.MaxBoards),
			CornerValue: int32(j.Limits.CornerValue),
			EdgeValue:   int32(j.Limits.EdgeValue),
		})
	}
	raw := make([]int32, int(h.Width)*int(h.Height))
	for _, j := range js {
		for i, cell := range j.Board.Cells() {
			raw[i] = int32(cell)
		}
		binary.Write(body, order, raw)
	}
	return nil
}

// Probe reads only the header of frame, so a receiver can size its buffers
// before decoding.
func Probe(frame []byte) (Header, error) {
	var h Header
	if len(frame) < headerSize {
		return h, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortFrame, len(frame), headerSize)
	}
	binary.Read(bytes.NewReader(frame[:headerSize]), order, &h)
	if h.Tag < communication.WantWork || h.Tag > communication.Shutdown {
		return h, fmt.Errorf("%w: %d", ErrUnknownTag, h.Tag)
	}
	if len(frame) < headerSize+int(h.BodyLength) {
		return h, fmt.Errorf("%w: body has %d bytes, header says %d", ErrShortFrame, len(frame)-headerSize, h.BodyLength)
	}
	return h, nil
}

func (c *Codec) Decode(frame []byte) (communication.Message, error) {
	h, err := Probe(frame)
	if err != nil {
		return communication.Message{}, err
	}
	msg := communication.Message{Tag: h.Tag, AlphaBeta: h.Flags&flagAlphaBeta != 0}
	if h.Count == 0 {
		return msg, nil
	}

	body := frame[headerSize : headerSize+int(h.BodyLength)]
	if h.Compressed() {
		body, err = c.decoder.DecodeAll(body, make([]byte, 0, h.DecodedSize()))
		if err != nil {
			return msg, fmt.Errorf("wire: decompress: %w", err)
		}
	}
	if len(body) < h.DecodedSize() {
		return msg, fmt.Errorf("%w: decoded body has %d bytes, want %d", ErrShortFrame, len(body), h.DecodedSize())
	}

	r := bytes.NewReader(body)
	if h.Results() {
		msg.Results = make([]jobs.Completed, h.Count)
		for i := range msg.Results {
			var rec resultRecord
			if err := binary.Read(r, order, &rec); err != nil {
				return msg, fmt.Errorf("wire: result %d: %w", i, err)
			}
			msg.Results[i] = jobs.Completed{
				ID:             int(rec.ID),
				ParentID:       int(rec.ParentID),
				Player:         game.Disk(rec.Player),
				Value:          int(rec.Value),
				BoardsAssessed: int(rec.Boards),
				Exhaustive:     rec.Exhaustive,
			}
		}
		return msg, nil
	}

	msg.Jobs, err = readJobs(r, h)
	return msg, err
}

func readJobs(r *bytes.Reader, h Header) ([]jobs.Job, error) {
	js := make([]jobs.Job, h.Count)
	for i := range js {
		var rec jobRecord
		if err := binary.Read(r, order, &rec); err != nil {
			return nil, fmt.Errorf("wire: job %d: %w", i, err)
		}
		js[i] = jobs.Job{
			ID:             int(rec.ID),
			ParentID:       int(rec.ParentID),
			Player:         game.Disk(rec.Player),
			Depth:          int(rec.Depth),
			BoardsAssessed: int(rec.Boards),
			Limits: searcher.Limits{
				Width:       int(rec.Width),
				Height:      int(rec.Height),
				MaxBoards:   int(rec.MaxBoards),
				CornerValue: int(rec.CornerValue),
				EdgeValue:   int(rec.EdgeValue),
			},
		}
	}

	raw := make([]int32, int(h.Width)*int(h.Height))
	cells := make([]game.Disk, len(raw))
	for i := range js {
		if err := binary.Read(r, order, raw); err != nil {
			return nil, fmt.Errorf("wire: board of job %d: %w", js[i].ID, err)
		}
		for c, v := range raw {
			cells[c] = game.Disk(v)
		}
		board, err := game.FromCells(int(h.Width), int(h.Height), cells)
		if err != nil {
			return nil, err
		}
		js[i].Board = board
	}
	return js, nil
}
