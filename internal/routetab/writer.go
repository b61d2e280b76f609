package routetab

import (
	"fmt"
	"io"
)

// WriteRoute renders one entry in the table's three-line layout. The
// index is zero-padded so the first column is always a digit, which is
// what Read requires of a target line.
func WriteRoute(w io.Writer, index int, rt Route) error {
	if index < 0 || index > 9999 {
		return fmt.Errorf("entry index %d out of range", index)
	}
	_, err := fmt.Fprintf(w, "%04d. target:  %s\n      netmask: %s\n      router:  %s\n",
		index, rt.Prefix, rt.Netmask, rt.Router)
	return err
}

// WriteAll renders routes as a whole table, numbering entries from
// zero.
func WriteAll(w io.Writer, routes []Route) error {
	for i, rt := range routes {
		if err := WriteRoute(w, i, rt); err != nil {
			return err
		}
	}
	return nil
}
