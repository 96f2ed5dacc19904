// Package invoice reads a customer's current invoice and turns it into the
// consumption and current bill a comparison needs.
package invoice

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bher20/tariffmanager/internal/billing"
	"github.com/bher20/tariffmanager/internal/tariff"
)

var (
	// ErrUnrecognized is returned when no registered layout accepts the text.
	ErrUnrecognized = errors.New("invoice: unrecognized layout")
	// ErrIncomplete wraps every missing required field.
	ErrIncomplete = errors.New("invoice: missing required field")
	// ErrUnreadablePDF wraps PDF open and text extraction failures.
	ErrUnreadablePDF = errors.New("invoice: unreadable pdf")
)

// Invoice is what a layout extracts from one bill.
type Invoice struct {
	Layout      string      `json:"layout"`
	CompanyName string      `json:"companyName,omitempty"`
	Type        tariff.Type `json:"type"`
	TariffType  string      `json:"tariffType,omitempty"`
	Total       float64     `json:"total"`
	Days        int         `json:"days"`
	PowerKW     []float64   `json:"powerKw,omitempty"`
	EnergyKWh   []float64   `json:"energyKwh,omitempty"`
	SurplusKWh  float64     `json:"surplusKwh,omitempty"`
	GasKWh      float64     `json:"gasKwh,omitempty"`
}

// Consumption returns the usage recorded on the invoice.
func (inv *Invoice) Consumption() billing.Consumption {
	c := billing.Consumption{Days: inv.Days}
	switch inv.Type {
	case tariff.TypeElectricity:
		c.PowerKW = append([]float64(nil), inv.PowerKW...)
		c.EnergyKWh = append([]float64(nil), inv.EnergyKWh...)
		c.SurplusKWh = inv.SurplusKWh
	case tariff.TypeGas:
		c.GasKWh = inv.GasKWh
	}
	return c
}

// TextParserFunc parses text extracted from an invoice.
type TextParserFunc func(text string) (*Invoice, error)

// Layout describes one invoice format.
type Layout struct {
	// Key is the unique identifier for this layout (e.g. "es-electricity").
	Key  string
	Name string
	// Detect reports whether text looks like this layout.
	Detect    func(text string) bool
	ParseText TextParserFunc
}

var (
	layoutsMu sync.RWMutex
	layouts   = make(map[string]Layout)
)

// RegisterLayout registers a layout. It is called from init() in each
// layout file and panics on misuse.
func RegisterLayout(l Layout) {
	if l.Key == "" {
		panic("invoice: RegisterLayout called with empty key")
	}
	if l.Detect == nil || l.ParseText == nil {
		panic(fmt.Sprintf("invoice: RegisterLayout(%q) called with nil func", l.Key))
	}

	layoutsMu.Lock()
	defer layoutsMu.Unlock()

	if _, exists := layouts[l.Key]; exists {
		panic(fmt.Sprintf("invoice: RegisterLayout called twice for key %q", l.Key))
	}
	layouts[l.Key] = l
}

func GetLayout(key string) (Layout, bool) {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	l, ok := layouts[key]
	return l, ok
}

// ListLayouts returns every registered layout key, sorted.
func ListLayouts() []string {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	keys := make([]string, 0, len(layouts))
	for k := range layouts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseText runs the first layout, in key order, whose detector accepts
// text.
func ParseText(text string) (*Invoice, error) {
	for _, key := range ListLayouts() {
		l, _ := GetLayout(key)
		if l.Detect(text) {
			return l.ParseText(text)
		}
	}
	return nil, ErrUnrecognized
}

// ParseTextWithLayout skips detection.
func ParseTextWithLayout(key, text string) (*Invoice, error) {
	l, ok := GetLayout(key)
	if !ok {
		return nil, fmt.Errorf("invoice: no layout registered for key %q", key)
	}
	return l.ParseText(text)
}

// parseAmount reads numbers printed either as 1.234,56 or as 1234.56.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
