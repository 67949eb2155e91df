// Package netio reads and writes network descriptions. A description is a
// flat list of node declarations and links; it is built into a sim.Factory
// using only the factory's construction operations, and regenerated from a
// factory by walking its collections in insertion order.
package netio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/netsim-dev/netsim/sim"
)

// NetworkDescription is the format-independent form of a network.
type NetworkDescription struct {
	Ramps       []RampSpec       `yaml:"ramps"`
	Workers     []WorkerSpec     `yaml:"workers"`
	Storehouses []StorehouseSpec `yaml:"storehouses"`
	Links       []LinkSpec       `yaml:"links"`
}

// RampSpec declares a loading ramp.
type RampSpec struct {
	ID               int64 `yaml:"id"`
	DeliveryInterval int64 `yaml:"delivery_interval"`
}

// WorkerSpec declares a worker.
type WorkerSpec struct {
	ID             int64  `yaml:"id"`
	ProcessingTime int64  `yaml:"processing_time"`
	QueueType      string `yaml:"queue_type"`
}

// StorehouseSpec declares a storehouse.
type StorehouseSpec struct {
	ID int64 `yaml:"id"`
}

// LinkSpec declares a routing-table entry. Src and Dest use the
// "<kind>-<id>" form, e.g. "ramp-1" or "store-2".
type LinkSpec struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
}

// Build creates a factory from the description. Nodes are added before
// links, so links may name nodes declared after them.
func (d *NetworkDescription) Build(cfg sim.FactoryConfig) (*sim.Factory, error) {
	f := sim.NewFactory(cfg)
	for _, r := range d.Ramps {
		if err := f.AddRamp(sim.ElementID(r.ID), sim.TimeOffset(r.DeliveryInterval)); err != nil {
			return nil, err
		}
	}
	for _, w := range d.Workers {
		qt, err := sim.ParseQueueType(w.QueueType)
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", w.ID, err)
		}
		if err := f.AddWorker(sim.ElementID(w.ID), sim.TimeOffset(w.ProcessingTime), qt); err != nil {
			return nil, err
		}
	}
	for _, s := range d.Storehouses {
		if err := f.AddStorehouse(sim.ElementID(s.ID)); err != nil {
			return nil, err
		}
	}
	for _, l := range d.Links {
		src, err := sim.ParseNodeRef(l.Src)
		if err != nil {
			return nil, fmt.Errorf("link src: %w", err)
		}
		dest, err := sim.ParseNodeRef(l.Dest)
		if err != nil {
			return nil, fmt.Errorf("link dest: %w", err)
		}
		if err := f.AddLink(src, dest); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Describe captures the structure of f. Links are listed per sender, ramps
// before workers, in routing-table order.
func Describe(f *sim.Factory) *NetworkDescription {
	d := &NetworkDescription{}
	for _, r := range f.Ramps() {
		d.Ramps = append(d.Ramps, RampSpec{ID: int64(r.ID()), DeliveryInterval: int64(r.DeliveryInterval())})
	}
	for _, w := range f.Workers() {
		d.Workers = append(d.Workers, WorkerSpec{
			ID:             int64(w.ID()),
			ProcessingTime: int64(w.ProcessingDuration()),
			QueueType:      w.Queue().Type().String(),
		})
	}
	for _, s := range f.Storehouses() {
		d.Storehouses = append(d.Storehouses, StorehouseSpec{ID: int64(s.ID())})
	}
	addLinks := func(s sim.Sender) {
		for _, e := range s.Preferences().Entries() {
			d.Links = append(d.Links, LinkSpec{Src: s.Ref().String(), Dest: e.Receiver.String()})
		}
	}
	for _, r := range f.Ramps() {
		addLinks(r)
	}
	for _, w := range f.Workers() {
		addLinks(w)
	}
	return d
}

// Format names a description encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension: .yaml and .yml
// are YAML, anything else is the line-oriented text format.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// LoadDescription reads a description file in the format implied by its extension.
func LoadDescription(path string) (*NetworkDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network description: %w", err)
	}
	var d *NetworkDescription
	if FormatForPath(path) == FormatYAML {
		d, err = DecodeYAML(data)
	} else {
		d, err = ParseText(strings.NewReader(string(data)))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing network description %s: %w", path, err)
	}
	return d, nil
}

// Load reads a description file and builds it into a factory.
func Load(path string, cfg sim.FactoryConfig) (*sim.Factory, error) {
	d, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	f, err := d.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("building network from %s: %w", path, err)
	}
	return f, nil
}

// SaveDescription writes d to path in the format implied by its extension.
func SaveDescription(path string, d *NetworkDescription) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if FormatForPath(path) == FormatYAML {
		err = EncodeYAML(file, d)
	} else {
		err = WriteText(file, d)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Save writes the structure of f to path.
func Save(path string, f *sim.Factory) error {
	return SaveDescription(path, Describe(f))
}
