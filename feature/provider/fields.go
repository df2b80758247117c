package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"asset-sync/core/models"
	"asset-sync/core/utils"

	"github.com/goccy/go-json"
)

// DefaultAssetName is used when an item carries no usable name.
const DefaultAssetName = "Unknown Asset"

// Lookup resolves a dotted path ("attributes.name", "ipAddresses.0") in decoded JSON.
func Lookup(v any, path string) (any, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// FirstString returns the first non-empty scalar found at paths, as a string.
func FirstString(v any, paths ...string) string {
	for _, p := range paths {
		val, ok := Lookup(v, p)
		if !ok {
			continue
		}
		switch val.(type) {
		case map[string]any, []any:
			continue
		}
		if s := strings.TrimSpace(utils.ToString(val)); s != "" {
			return s
		}
	}
	return ""
}

// FirstTime returns the first parseable timestamp found at paths.
func FirstTime(v any, paths ...string) (time.Time, bool) {
	for _, p := range paths {
		if val, ok := Lookup(v, p); ok {
			if t, ok := utils.ToTime(val); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// FieldMap lists, per canonical field, the ordered fallback paths to try.
type FieldMap struct {
	ID         []string
	Type       []string
	Name       []string
	Hostname   []string
	IPAddress  []string
	Status     []string
	ClientID   []string
	ClientName []string
	LastSeen   []string

	// DefaultType applies when Type yields nothing, or always when Type is empty.
	DefaultType string
	// DefaultName applies when Name yields nothing.
	DefaultName string
	// Adjust runs after extraction for fields that need vendor logic.
	Adjust func(item map[string]any, asset *NormalizedAsset)
}

// DefaultFields covers flat items and JSON:API attributes.
var DefaultFields = FieldMap{
	ID:         []string{"id", "external_id", "uid", "attributes.id"},
	Type:       []string{"external_type", "asset_type", "attributes.asset_type"},
	Name:       []string{"name", "display_name", "attributes.name", "hostname"},
	Hostname:   []string{"hostname", "host_name", "attributes.hostname"},
	IPAddress:  []string{"ip_address", "ip", "ipAddress", "attributes.ip_address"},
	Status:     []string{"status", "state", "attributes.status"},
	ClientID:   []string{"client_id", "company_id", "organization_id", "attributes.client_id"},
	ClientName: []string{"client_name", "company_name", "organization_name", "attributes.client_name"},
	LastSeen:   []string{"last_seen", "last_seen_at", "updated_at", "attributes.updated_at"},
}

// WithFallback appends the paths of fb after the paths of m for every field.
func (m FieldMap) WithFallback(fb FieldMap) FieldMap {
	merge := func(a, b []string) []string {
		out := make([]string, 0, len(a)+len(b))
		out = append(out, a...)
		return append(out, b...)
	}
	m.ID = merge(m.ID, fb.ID)
	m.Type = merge(m.Type, fb.Type)
	m.Name = merge(m.Name, fb.Name)
	m.Hostname = merge(m.Hostname, fb.Hostname)
	m.IPAddress = merge(m.IPAddress, fb.IPAddress)
	m.Status = merge(m.Status, fb.Status)
	m.ClientID = merge(m.ClientID, fb.ClientID)
	m.ClientName = merge(m.ClientName, fb.ClientName)
	m.LastSeen = merge(m.LastSeen, fb.LastSeen)
	return m
}

// Normalize maps one raw item. ok is false for non-objects and items without an id.
func Normalize(raw any, m FieldMap, now time.Time) (NormalizedAsset, bool) {
	item, isMap := raw.(map[string]any)
	if !isMap {
		return NormalizedAsset{}, false
	}

	id := FirstString(item, m.ID...)
	if id == "" {
		return NormalizedAsset{}, false
	}

	asset := NormalizedAsset{
		ExternalID:         id,
		ExternalType:       FirstString(item, m.Type...),
		Name:               FirstString(item, m.Name...),
		Hostname:           FirstString(item, m.Hostname...),
		IPAddress:          FirstString(item, m.IPAddress...),
		Status:             FirstString(item, m.Status...),
		ExternalClientID:   FirstString(item, m.ClientID...),
		ExternalClientName: FirstString(item, m.ClientName...),
		Metadata:           item,
	}
	if t, ok := FirstTime(item, m.LastSeen...); ok {
		asset.LastSeenAt = t
	}
	if m.Adjust != nil {
		m.Adjust(item, &asset)
	}

	if asset.ExternalType == "" {
		asset.ExternalType = m.DefaultType
	}
	if asset.ExternalType == "" {
		asset.ExternalType = models.DefaultExternalType
	}
	if asset.Name == "" {
		asset.Name = m.DefaultName
	}
	if asset.Name == "" {
		asset.Name = DefaultAssetName
	}
	if asset.LastSeenAt.IsZero() {
		asset.LastSeenAt = now.UTC()
	}
	return asset, true
}

// NormalizeAll maps raw items, silently dropping those Normalize rejects.
func NormalizeAll(items []any, m FieldMap, now time.Time) []NormalizedAsset {
	out := make([]NormalizedAsset, 0, len(items))
	for _, raw := range items {
		if asset, ok := Normalize(raw, m, now); ok {
			out = append(out, asset)
		}
	}
	return out
}

// ItemsAt returns the item array of a response: the body itself when it is an
// array, otherwise the first array found at keys.
func ItemsAt(body any, keys ...string) []any {
	if arr, ok := body.([]any); ok {
		return arr
	}
	for _, k := range keys {
		if v, ok := Lookup(body, k); ok {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
	}
	return nil
}

// Clients maps raw tenant records; records without an id are dropped.
func Clients(items []any, idPaths, namePaths []string) []DiscoveredClient {
	out := make([]DiscoveredClient, 0, len(items))
	for _, raw := range items {
		id := FirstString(raw, idPaths...)
		if id == "" {
			continue
		}
		out = append(out, DiscoveredClient{ExternalID: id, Name: FirstString(raw, namePaths...)})
	}
	return out
}

// ExtractWebhookItems unwraps a push payload into raw items. Accepted shapes:
// a bare item, an array, {"asset": {...}}, {"assets": [...]} and a "data"
// envelope holding any of those.
func ExtractWebhookItems(payload []byte) ([]any, error) {
	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	return unwrap(body, 0), nil
}

func unwrap(body any, depth int) []any {
	switch v := body.(type) {
	case []any:
		return v
	case map[string]any:
		if depth < 3 {
			if arr, ok := v["assets"].([]any); ok {
				return arr
			}
			if one, ok := v["asset"].(map[string]any); ok {
				return []any{one}
			}
			if data, ok := v["data"]; ok {
				switch data.(type) {
				case []any, map[string]any:
					return unwrap(data, depth+1)
				}
			}
		}
		return []any{v}
	default:
		return nil
	}
}

// MapWebhook is the default MapWebhookPayload behaviour.
func MapWebhook(payload []byte, m FieldMap, now time.Time) ([]NormalizedAsset, error) {
	items, err := ExtractWebhookItems(payload)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(items, m, now), nil
}
