package routetab

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
)

const (
	// maxLineLen is the longest line the table format produces,
	// excluding the terminator. Longer lines are truncated at this
	// bound and the remainder is left in the stream.
	maxLineLen = 57

	// addrOffset is the column where the address text begins on every
	// line of a group; the label padding before it is fixed-width.
	addrOffset = 15
)

// Reader parses routing table entries from a text stream. It does not
// own the stream and never closes it. A Reader must not be used from
// multiple goroutines at once: the stream position is shared state
// across Read calls.
type Reader struct {
	br   *bufio.Reader
	line []byte
}

// NewReader returns a Reader parsing from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br:   bufio.NewReader(r),
		line: make([]byte, 0, maxLineLen),
	}
}

// Read parses the next three-line entry group. It returns io.EOF once
// the stream is exhausted. A stream that ends partway through a group
// also yields io.EOF rather than an error, matching how the table has
// always been consumed: a truncated trailing group is treated as end of
// input, not corruption.
func (r *Reader) Read() (Route, error) {
	var rt Route

	// Target line: starts with the decimal entry index. The index
	// value itself carries no information and is discarded.
	line, err := r.readLine()
	if err != nil {
		return Route{}, err
	}
	if len(line) == 0 || line[0] < '0' || line[0] > '9' {
		return Route{}, fmt.Errorf("%w: target line does not start with an index digit", ErrBadEntry)
	}
	if rt.Prefix, err = parseAddrField(line); err != nil {
		return Route{}, fmt.Errorf("target: %w", err)
	}

	// Netmask and router lines: continuation lines, no index.
	for _, dst := range []struct {
		label string
		addr  *netip.Addr
	}{
		{"netmask", &rt.Netmask},
		{"router", &rt.Router},
	} {
		line, err = r.readLine()
		if err != nil {
			return Route{}, err
		}
		if len(line) == 0 || line[0] != ' ' {
			return Route{}, fmt.Errorf("%w: %s line does not start with a space", ErrBadEntry, dst.label)
		}
		if *dst.addr, err = parseAddrField(line); err != nil {
			return Route{}, fmt.Errorf("%s: %w", dst.label, err)
		}
	}

	return rt, nil
}

// ReadAll reads entries until end of input.
func (r *Reader) ReadAll() ([]Route, error) {
	var routes []Route
	for {
		rt, err := r.Read()
		if err == io.EOF {
			return routes, nil
		}
		if err != nil {
			return routes, err
		}
		routes = append(routes, rt)
	}
}

// readLine returns the next line, without its terminator, reading at
// most maxLineLen bytes. An over-long line is returned truncated with
// the remainder left for the next call. At end of input a final
// unterminated line is returned as-is; io.EOF is only returned once no
// bytes remain.
func (r *Reader) readLine() ([]byte, error) {
	buf := r.line[:0]
	for len(buf) < maxLineLen {
		b, err := r.br.ReadByte()
		if err == io.EOF {
			if len(buf) == 0 {
				return nil, io.EOF
			}
			break
		}
		if err != nil {
			return nil, err
		}
		if b == '\n' {
			break
		}
		buf = append(buf, b)
	}
	r.line = buf
	return buf, nil
}

// parseAddrField extracts the address text starting at addrOffset and
// converts it to binary form.
func parseAddrField(line []byte) (netip.Addr, error) {
	if len(line) <= addrOffset {
		return netip.Addr{}, fmt.Errorf("%w: line too short for an address field", ErrBadEntry)
	}
	field := line[addrOffset:]
	text := string(field[:addrSpan(field)])
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: invalid address %q", ErrBadEntry, text)
	}
	if !addr.Is6() {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrAddrFamily, text)
	}
	return addr, nil
}

// addrSpan returns the length of the leading run of address bytes in
// field. The first byte that is neither a hex digit nor ':' ends the
// address; anything after it (flags, interface names) is not ours to
// parse.
func addrSpan(field []byte) int {
	for i, b := range field {
		switch {
		case b >= '0' && b <= '9':
		case b >= 'a' && b <= 'f':
		case b >= 'A' && b <= 'F':
		case b == ':':
		default:
			return i
		}
	}
	return len(field)
}
