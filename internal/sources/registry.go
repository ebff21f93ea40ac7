package sources

import "github.com/pharmalens/pricelens/internal/domain"

// builders lists every adapter constructor in rank order. Ties between equal
// prices resolve in this order, so light, fast sources come first.
var builders = []struct {
	id    string
	build func() Adapter
}{
	{"pharmeasy", func() Adapter { return NewPharmEasy() }},
	{"1mg", func() Adapter { return NewOneMG() }},
	{"netmeds", func() Adapter { return NewNetmeds() }},
	{"apollo", func() Adapter { return NewApollo() }},
	{"medplus", func() Adapter { return NewMedPlus() }},
	{"truemeds", func() Adapter { return NewTruemeds() }},
}

// BuildAdapters constructs the enabled adapters in rank order. Unknown IDs in
// enabled are ignored; an empty enabled list yields no adapters.
func BuildAdapters(enabled []string) []Adapter {
	want := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		want[id] = true
	}

	adapters := make([]Adapter, 0, len(builders))
	for _, b := range builders {
		if want[b.id] {
			adapters = append(adapters, b.build())
		}
	}
	return adapters
}

// AllDescriptors returns every known source descriptor in rank order,
// enabled or not.
func AllDescriptors() []domain.SourceDescriptor {
	descs := make([]domain.SourceDescriptor, 0, len(builders))
	for _, b := range builders {
		descs = append(descs, b.build().Descriptor())
	}
	return descs
}

// DefaultEnabled lists the sources switched on out of the box. The heavy
// stealth sources (medplus, truemeds) stay off until explicitly enabled.
func DefaultEnabled() []string {
	return []string{"pharmeasy", "1mg", "netmeds", "apollo"}
}
