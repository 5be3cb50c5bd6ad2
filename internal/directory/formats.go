package directory

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Bind format names.
const (
	FormatUPN     = "upn"
	FormatDN      = "dn"
	FormatShort   = "short"
	FormatNetBIOS = "netbios"
)

// Principal is the input a bind format renders into a bind name.
type Principal struct {
	Name    string
	Domain  string
	NetBIOS string
	BaseDN  string
}

// shortName strips any domain qualification from the principal name.
func (p Principal) shortName() string {
	name := p.Name
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}

	return name
}

// BindFormat renders a principal into one of the credential spellings the directory accepts.
// Build returns an empty string when the format is not applicable to the principal.
type BindFormat struct {
	Name  string
	Build func(p Principal) string
}

var builtinFormats = map[string]BindFormat{
	FormatUPN: {Name: FormatUPN, Build: func(p Principal) string {
		if strings.Contains(p.Name, "@") {
			return p.Name
		}

		if p.Domain == "" {
			return ""
		}

		return p.shortName() + "@" + p.Domain
	}},
	FormatDN: {Name: FormatDN, Build: func(p Principal) string {
		if strings.Contains(p.Name, "=") {
			return p.Name
		}

		if p.BaseDN == "" {
			return ""
		}

		return "CN=" + p.shortName() + ",CN=Users," + p.BaseDN
	}},
	FormatShort: {Name: FormatShort, Build: func(p Principal) string {
		if strings.Contains(p.Name, "=") {
			return ""
		}

		return p.shortName()
	}},
	FormatNetBIOS: {Name: FormatNetBIOS, Build: func(p Principal) string {
		if p.NetBIOS == "" || strings.Contains(p.Name, "=") {
			return ""
		}

		return p.NetBIOS + `\` + p.shortName()
	}},
}

// DefaultFormatNames is the admin bind order used when none is configured.
func DefaultFormatNames() []string {
	return []string{FormatUPN, FormatDN, FormatShort, FormatNetBIOS}
}

// LookupFormat returns the built-in format with the given name.
func LookupFormat(name string) (BindFormat, error) {
	f, ok := builtinFormats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return BindFormat{}, fmt.Errorf("%w: %q", ErrUnknownBindFormat, name)
	}

	return f, nil
}

// LookupFormats resolves names in order. Duplicates are dropped.
func LookupFormats(names []string) ([]BindFormat, error) {
	formats := make([]BindFormat, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		f, err := LookupFormat(name)
		if err != nil {
			return nil, err
		}

		if seen[f.Name] {
			continue
		}

		seen[f.Name] = true

		formats = append(formats, f)
	}

	return formats, nil
}

// FormatOrder is the ordered list of admin bind formats to try.
type FormatOrder interface {
	// Formats returns a snapshot of the current order.
	Formats() []BindFormat
	// Promote moves the named format to the front.
	Promote(name string)
}

// PromotingOrder is a FormatOrder that moves the last successful format to the front,
// so subsequent sessions bind on the first attempt.
type PromotingOrder struct {
	mu      sync.Mutex
	formats []BindFormat
	hints   HintStore
}

// NewPromotingOrder creates an order starting with formats. When hints holds a preferred
// format from another process it is promoted right away.
func NewPromotingOrder(formats []BindFormat, hints HintStore) *PromotingOrder {
	o := &PromotingOrder{
		formats: slices.Clone(formats),
		hints:   hints,
	}

	if hints != nil {
		if preferred, ok := hints.Get(hintKeyBindFormat); ok {
			o.promote(preferred)
		}
	}

	return o
}

// Formats returns a snapshot of the current order.
func (o *PromotingOrder) Formats() []BindFormat {
	o.mu.Lock()
	defer o.mu.Unlock()

	return slices.Clone(o.formats)
}

// Promote moves the named format to the front. Unknown names are ignored.
func (o *PromotingOrder) Promote(name string) {
	if !o.promote(name) {
		return
	}

	if o.hints != nil {
		o.hints.Set(hintKeyBindFormat, name, 24*time.Hour)
	}
}

func (o *PromotingOrder) promote(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	idx := slices.IndexFunc(o.formats, func(f BindFormat) bool { return f.Name == name })
	if idx < 0 {
		return false
	}

	if idx == 0 {
		return true
	}

	f := o.formats[idx]
	o.formats = slices.Delete(o.formats, idx, idx+1)
	o.formats = slices.Insert(o.formats, 0, f)

	return true
}

// Names returns the format names in current order.
func (o *PromotingOrder) Names() []string {
	formats := o.Formats()

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.Name
	}

	return names
}
