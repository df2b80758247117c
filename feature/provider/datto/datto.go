package datto

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"asset-sync/core/models"
	"asset-sync/core/utils"
	"asset-sync/feature/provider"
)

// Key is the registry key of the Datto RMM adapter.
const Key = "datto"

const (
	devicesPath     = "/api/v2/account/devices"
	sitesPath       = "/api/v2/account/sites"
	defaultPageSize = 250
)

var fields = provider.FieldMap{
	ID:          []string{"uid", "id"},
	Name:        []string{"hostname", "description"},
	Hostname:    []string{"hostname"},
	IPAddress:   []string{"intIpAddress", "extIpAddress"},
	ClientID:    []string{"siteUid", "siteId"},
	ClientName:  []string{"siteName"},
	LastSeen:    []string{"lastSeen", "lastAuditDate"},
	DefaultType: "device",
	Adjust: func(item map[string]any, asset *provider.NormalizedAsset) {
		if asset.Status != "" {
			return
		}
		if online, ok := item["online"]; ok {
			asset.Status = "offline"
			if utils.ToBool(online) {
				asset.Status = "online"
			}
		}
	},
}

// Provider pulls devices from Datto RMM. The API has no incremental filter, so
// every pull is a full pull.
type Provider struct {
	req *provider.Requester
}

// New creates the adapter.
func New(req *provider.Requester) *Provider {
	return &Provider{req: req}
}

func (p *Provider) Key() string         { return Key }
func (p *Provider) DisplayName() string { return "Datto RMM" }

func auth(conn *models.Connection) provider.Auth {
	token := conn.Credential("api_token")
	if token == "" {
		token = conn.Credential("token")
	}
	return provider.Bearer(token)
}

// FetchAssets implements provider.Provider.
func (p *Provider) FetchAssets(ctx context.Context, conn *models.Connection, _ *time.Time) ([]provider.NormalizedAsset, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("assets", devicesPath), "devices")
	return provider.NormalizeAll(items, fields, time.Now()), err
}

// DiscoverClients implements provider.Provider.
func (p *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("clients", sitesPath), "sites")
	if err != nil {
		return nil, err
	}
	return provider.Clients(items, []string{"uid", "id"}, []string{"name"}), nil
}

// list follows pageDetails.nextPageUrl, which is an absolute URL.
func (p *Provider) list(ctx context.Context, conn *models.Connection, path, key string) ([]any, error) {
	size := conn.PageSize(defaultPageSize)
	return provider.Paginate(ctx, p.req.MaxPages(), func(ctx context.Context, cursor string) (provider.Page, error) {
		target, q := path, url.Values{"max": {strconv.Itoa(size)}, "page": {"0"}}
		if cursor != "" {
			target, q = cursor, nil
		}
		body, err := p.req.Get(ctx, conn, target, q, auth(conn))
		if err != nil {
			return provider.Page{}, err
		}
		return provider.Page{
			Items: provider.ItemsAt(body, key),
			Next:  provider.FirstString(body, "pageDetails.nextPageUrl"),
		}, nil
	})
}

// MapWebhookPayload implements provider.Provider.
func (p *Provider) MapWebhookPayload(_ context.Context, _ *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	return provider.MapWebhook(payload, fields.WithFallback(provider.DefaultFields), time.Now())
}
