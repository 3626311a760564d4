package crsf

// Parser reassembles frames from a byte stream.
// The zero value is ready to use.
type Parser struct {
	state  ParseState
	buf    [MaxFrameSize]byte
	recvd  int
	length int
	replay []byte
}

// ParseState is the state of the framer.
type ParseState int

const (
	// StateIdle means scanning for the sync byte.
	StateIdle ParseState = iota
	// StateReadingLength means sync received, waiting for the length.
	StateReadingLength
	// StateReadingBody means receiving type, payload and crc.
	StateReadingBody
)

// ParseResult indicates the result after one parsing step.
// Errs holds one entry per partial frame discarded, it's informational only.
// Bytes of a discarded frame are scanned again, so one step may complete
// more than one frame.
type ParseResult struct {
	Frames []*Frame
	Errs   []error
}

// State gets the current state.
func (p *Parser) State() ParseState {
	return p.state
}

// Reset discards any partial frame.
func (p *Parser) Reset() {
	p.state, p.recvd, p.length = StateIdle, 0, 0
	p.replay = p.replay[:0]
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	p.step(b, &pr)
	for len(p.replay) > 0 {
		b := p.replay[0]
		p.replay = p.replay[1:]
		p.step(b, &pr)
	}
	return
}

// Feed parses all bytes in p and calls fn for every complete frame.
// It returns the number of partial frames discarded.
func (p *Parser) Feed(data []byte, fn func(*Frame)) (dropped int) {
	for _, b := range data {
		pr := p.Parse(b)
		dropped += len(pr.Errs)
		if fn != nil {
			for _, f := range pr.Frames {
				fn(f)
			}
		}
	}
	return
}

func (p *Parser) step(b byte, pr *ParseResult) {
	switch p.state {
	case StateIdle:
		if b == SyncByte {
			p.buf[0], p.recvd = b, 1
			p.state = StateReadingLength
		}
	case StateReadingLength:
		if l := int(b); l < MinFrameLength || l > MaxFrameLength {
			p.discard(ErrLengthOutOfRange, pr, b)
			return
		}
		p.buf[1], p.recvd, p.length = b, 2, int(b)
		p.state = StateReadingBody
	case StateReadingBody:
		if p.recvd >= len(p.buf) {
			p.discard(ErrLengthOutOfRange, pr, b)
			return
		}
		p.buf[p.recvd] = b
		p.recvd++
		if p.recvd-2 >= p.length {
			p.frameReady(pr)
		}
	}
}

// discard drops the partial frame and queues everything after its sync
// byte, followed by extra, to be scanned again ahead of pending bytes.
func (p *Parser) discard(err error, pr *ParseResult, extra ...byte) {
	pr.Errs = append(pr.Errs, err)
	rescan := make([]byte, 0, p.recvd+len(extra)+len(p.replay))
	if p.recvd > 1 {
		rescan = append(rescan, p.buf[1:p.recvd]...)
	}
	rescan = append(rescan, extra...)
	rescan = append(rescan, p.replay...)
	p.state, p.recvd, p.length = StateIdle, 0, 0
	p.replay = rescan
}

func (p *Parser) frameReady(pr *ParseResult) {
	end := p.recvd - 1
	if Checksum(p.buf[2:end]) != p.buf[end] {
		p.discard(ErrChecksumMismatch, pr)
		return
	}
	f := &Frame{Type: FrameType(p.buf[2])}
	if end > 3 {
		f.Payload = make([]byte, end-3)
		copy(f.Payload, p.buf[3:end])
	}
	pr.Frames = append(pr.Frames, f)
	p.state, p.recvd, p.length = StateIdle, 0, 0
}
