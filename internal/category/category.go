// Package category holds the static mapping from submission categories to
// tracker labels and team notification channels. The registry is built once
// at startup for the configured tracker backend and is read-only after that.
package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// ErrUnknownCategory is returned for category codes with no registry entry.
var ErrUnknownCategory = errors.New("unknown category")

// Entry maps one category code to its tracker label and, when a team owns
// the category, the channel red alerts are routed to. Categories without a
// channel are simply not routable; nothing is defaulted here.
type Entry struct {
	Label   protocol.Label
	Channel string
}

// Registry is the immutable category table for one tracker backend.
type Registry struct {
	codes      []string
	entries    map[string]Entry
	escalation protocol.Label
}

// Category codes accepted by the report dialog.
const (
	WebApp    = "web_app"
	CRX       = "crx"
	SDK       = "sdk"
	Mobile    = "mobile"
	NPS       = "nps"
	Other     = "other"
	GeneralUX = "general_ux"
)

// codeOrder is the stable iteration order, matching the dialog's select.
var codeOrder = []string{WebApp, CRX, SDK, NPS, Mobile, GeneralUX, Other}

var channels = map[string]string{
	WebApp: "#team-web-app",
	CRX:    "#team-flow-builder",
	SDK:    "#team-sdk",
	Mobile: "#team-mobile",
	NPS:    "#team-nps",
}

// Label IDs live in the remote trackers, so each backend gets its own table.

var shortcutLabels = map[string]protocol.Label{
	WebApp: {ExternalID: "178", Name: "web-app"},
	CRX:    {ExternalID: "32", Name: "crx"},
	SDK:    {ExternalID: "523", Name: "sdk"},
	Mobile: {ExternalID: "181", Name: "mobile-sdk"},
	NPS:    {ExternalID: "524", Name: "nps"},
}

var shortcutEscalation = protocol.Label{ExternalID: "666", Name: "red-alert"}

var trelloLabels = map[string]protocol.Label{
	WebApp: {ExternalID: "5c009688154cb95263eed15a", Name: "web-app"},
	CRX:    {ExternalID: "5c00969171b1ee51af6077b8", Name: "crx"},
	SDK:    {ExternalID: "5c00969cd907cb478ba431b5", Name: "sdk"},
	Mobile: {ExternalID: "5c0096bfea68014a1b0f4985", Name: "mobile-sdk"},
	NPS:    {ExternalID: "5c0096b48eba670856c2462b", Name: "nps"},
}

var trelloEscalation = protocol.Label{ExternalID: "5c0096d2af2ba8760b1a54c3", Name: "red-alert"}

// NewShortcut builds the registry for the Shortcut backend.
func NewShortcut() *Registry {
	return build(shortcutLabels, shortcutEscalation)
}

// NewTrello builds the registry for the Trello backend.
func NewTrello() *Registry {
	return build(trelloLabels, trelloEscalation)
}

// ForBackend builds the registry matching a tracker backend name.
func ForBackend(backend string) (*Registry, error) {
	switch backend {
	case "shortcut":
		return NewShortcut(), nil
	case "trello":
		return NewTrello(), nil
	default:
		return nil, fmt.Errorf("category: no label table for backend %q", backend)
	}
}

func build(labels map[string]protocol.Label, escalation protocol.Label) *Registry {
	entries := make(map[string]Entry, len(codeOrder))
	for _, code := range codeOrder {
		entries[code] = Entry{Label: labels[code], Channel: channels[code]}
	}
	return &Registry{codes: codeOrder, entries: entries, escalation: escalation}
}

// Codes returns every accepted category code in stable order.
func (r *Registry) Codes() []string {
	return r.codes
}

// LabelFor returns the tracker label for a category code. The label is
// zero-valued for categories that carry no label (other, general_ux).
func (r *Registry) LabelFor(code string) (protocol.Label, error) {
	e, ok := r.entries[code]
	if !ok {
		return protocol.Label{}, fmt.Errorf("%w: %q", ErrUnknownCategory, code)
	}
	return e.Label, nil
}

// ChannelFor returns the notification channel for a category code, or ""
// when the category has no channel configured.
func (r *Registry) ChannelFor(code string) string {
	return r.entries[code].Channel
}

// FromLabelName reverse-maps a tracker label name back to its category
// code. Spaces in the incoming name are normalized to the label delimiter
// first, so "web app" and "web-app" both resolve to web_app.
func (r *Registry) FromLabelName(name string) (string, error) {
	normalized := strings.ReplaceAll(name, " ", "-")
	for _, code := range r.codes {
		l := r.entries[code].Label
		if !l.IsZero() && l.Name == normalized {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no category for label %q", ErrUnknownCategory, name)
}

// EscalationLabel returns the label appended to a ticket when a red alert
// is raised.
func (r *Registry) EscalationLabel() protocol.Label {
	return r.escalation
}
