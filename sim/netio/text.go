package netio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ElementType is the leading tag of a declaration line.
type ElementType string

const (
	ElementRamp       ElementType = "LOADING_RAMP"
	ElementWorker     ElementType = "WORKER"
	ElementStorehouse ElementType = "STOREHOUSE"
	ElementLink       ElementType = "LINK"
)

// requiredKeys lists the KEY=value tokens each tag must carry.
var requiredKeys = map[ElementType][]string{
	ElementRamp:       {"id", "delivery-interval"},
	ElementWorker:     {"id", "processing-time", "queue-type"},
	ElementStorehouse: {"id"},
	ElementLink:       {"src", "dest"},
}

// ParsedLine is one declaration: its tag and KEY=value parameters.
type ParsedLine struct {
	Type   ElementType
	Params map[string]string
}

// ParseLine splits a declaration line into its tag and parameters.
// Unknown tags, malformed tokens, repeated keys, unexpected keys and missing
// required keys are errors.
func ParseLine(line string) (ParsedLine, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParsedLine{}, fmt.Errorf("empty declaration")
	}
	tag := ElementType(fields[0])
	required, ok := requiredKeys[tag]
	if !ok {
		return ParsedLine{}, fmt.Errorf("unknown element tag %q", fields[0])
	}
	params := make(map[string]string, len(fields)-1)
	for _, tok := range fields[1:] {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" || value == "" {
			return ParsedLine{}, fmt.Errorf("%s: malformed token %q; want KEY=value", tag, tok)
		}
		if _, dup := params[key]; dup {
			return ParsedLine{}, fmt.Errorf("%s: repeated key %q", tag, key)
		}
		params[key] = value
	}
	for _, k := range required {
		if _, ok := params[k]; !ok {
			return ParsedLine{}, fmt.Errorf("%s: missing %s", tag, k)
		}
	}
	if len(params) != len(required) {
		for k := range params {
			if !contains(required, k) {
				return ParsedLine{}, fmt.Errorf("%s: unexpected key %q", tag, k)
			}
		}
	}
	return ParsedLine{Type: tag, Params: params}, nil
}

func contains(keys []string, k string) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

// ParseText reads the line-oriented format. Blank lines and lines starting
// with ';' are ignored.
func ParseText(r io.Reader) (*NetworkDescription, error) {
	d := &NetworkDescription{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		parsed, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := d.add(parsed); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading network description: %w", err)
	}
	return d, nil
}

func (d *NetworkDescription) add(p ParsedLine) error {
	switch p.Type {
	case ElementRamp:
		id, err := intParam(p, "id")
		if err != nil {
			return err
		}
		interval, err := intParam(p, "delivery-interval")
		if err != nil {
			return err
		}
		d.Ramps = append(d.Ramps, RampSpec{ID: id, DeliveryInterval: interval})
	case ElementWorker:
		id, err := intParam(p, "id")
		if err != nil {
			return err
		}
		pt, err := intParam(p, "processing-time")
		if err != nil {
			return err
		}
		d.Workers = append(d.Workers, WorkerSpec{ID: id, ProcessingTime: pt, QueueType: p.Params["queue-type"]})
	case ElementStorehouse:
		id, err := intParam(p, "id")
		if err != nil {
			return err
		}
		d.Storehouses = append(d.Storehouses, StorehouseSpec{ID: id})
	case ElementLink:
		d.Links = append(d.Links, LinkSpec{Src: p.Params["src"], Dest: p.Params["dest"]})
	}
	return nil
}

func intParam(p ParsedLine, key string) (int64, error) {
	v, err := strconv.ParseInt(p.Params[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s must be an integer, got %q", p.Type, key, p.Params[key])
	}
	return v, nil
}

// WriteText writes d in the line-oriented format, one section per element type.
func WriteText(w io.Writer, d *NetworkDescription) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "; == LOADING RAMPS ==")
	fmt.Fprintln(bw)
	for _, r := range d.Ramps {
		fmt.Fprintf(bw, "%s id=%d delivery-interval=%d\n", ElementRamp, r.ID, r.DeliveryInterval)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "; == WORKERS ==")
	fmt.Fprintln(bw)
	for _, wk := range d.Workers {
		fmt.Fprintf(bw, "%s id=%d processing-time=%d queue-type=%s\n", ElementWorker, wk.ID, wk.ProcessingTime, wk.QueueType)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "; == STOREHOUSES ==")
	fmt.Fprintln(bw)
	for _, s := range d.Storehouses {
		fmt.Fprintf(bw, "%s id=%d\n", ElementStorehouse, s.ID)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "; == LINKS ==")
	fmt.Fprintln(bw)
	prevSrc := ""
	for i, l := range d.Links {
		if i > 0 && l.Src != prevSrc {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "%s src=%s dest=%s\n", ElementLink, l.Src, l.Dest)
		prevSrc = l.Src
	}

	return bw.Flush()
}
