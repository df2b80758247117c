package ninjaone

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"asset-sync/core/models"
	"asset-sync/core/utils"
	"asset-sync/feature/provider"
)

// Key is the registry key of the NinjaOne adapter.
const Key = "ninjaone"

const (
	devicesPath       = "/v2/devices-detailed"
	organizationsPath = "/v2/organizations"
	defaultPageSize   = 1000
)

var fields = provider.FieldMap{
	ID:          []string{"id"},
	Name:        []string{"displayName", "systemName", "dnsName"},
	Hostname:    []string{"systemName", "dnsName"},
	IPAddress:   []string{"ipAddresses.0"},
	ClientID:    []string{"organizationId"},
	ClientName:  []string{"references.organization.name"},
	LastSeen:    []string{"lastContact", "lastUpdate"},
	DefaultType: "device",
	Adjust: func(item map[string]any, asset *provider.NormalizedAsset) {
		if asset.Status != "" {
			return
		}
		if offline, ok := item["offline"]; ok {
			asset.Status = "online"
			if utils.ToBool(offline) {
				asset.Status = "offline"
			}
		}
	},
}

// Provider pulls devices from NinjaOne. The device list is a full pull keyed by
// an "after" id cursor.
type Provider struct {
	req *provider.Requester
}

// New creates the adapter.
func New(req *provider.Requester) *Provider {
	return &Provider{req: req}
}

func (p *Provider) Key() string         { return Key }
func (p *Provider) DisplayName() string { return "NinjaOne" }

func auth(conn *models.Connection) provider.Auth {
	token := conn.Credential("access_token")
	if token == "" {
		token = conn.Credential("token")
	}
	return provider.Bearer(token)
}

// FetchAssets implements provider.Provider.
func (p *Provider) FetchAssets(ctx context.Context, conn *models.Connection, _ *time.Time) ([]provider.NormalizedAsset, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("assets", devicesPath))
	return provider.NormalizeAll(items, fields, time.Now()), err
}

// DiscoverClients implements provider.Provider.
func (p *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("clients", organizationsPath))
	if err != nil {
		return nil, err
	}
	return provider.Clients(items, []string{"id"}, []string{"name"}), nil
}

// list uses the id of the last item as the next "after" cursor.
func (p *Provider) list(ctx context.Context, conn *models.Connection, path string) ([]any, error) {
	size := conn.PageSize(defaultPageSize)
	return provider.Paginate(ctx, p.req.MaxPages(), func(ctx context.Context, cursor string) (provider.Page, error) {
		q := url.Values{"pageSize": {strconv.Itoa(size)}}
		if cursor != "" {
			q.Set("after", cursor)
		}
		body, err := p.req.Get(ctx, conn, path, q, auth(conn))
		if err != nil {
			return provider.Page{}, err
		}

		items := provider.ItemsAt(body)
		page := provider.Page{Items: items}
		if len(items) >= size {
			page.Next = provider.FirstString(items[len(items)-1], "id")
		}
		return page, nil
	})
}

// MapWebhookPayload implements provider.Provider.
func (p *Provider) MapWebhookPayload(_ context.Context, _ *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	return provider.MapWebhook(payload, fields.WithFallback(provider.DefaultFields), time.Now())
}
