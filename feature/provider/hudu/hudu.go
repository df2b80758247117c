package hudu

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"asset-sync/core/models"
	"asset-sync/core/utils"
	"asset-sync/feature/provider"
)

// Key is the registry key of the Hudu adapter.
const Key = "hudu"

const (
	assetsPath      = "/api/v1/assets"
	companiesPath   = "/api/v1/companies"
	defaultPageSize = 1000
)

var fields = provider.FieldMap{
	ID:          []string{"id"},
	Name:        []string{"name"},
	Hostname:    []string{"hostname", "primary_serial"},
	IPAddress:   []string{"ip_address"},
	ClientID:    []string{"company_id"},
	ClientName:  []string{"company_name"},
	LastSeen:    []string{"updated_at"},
	DefaultType: "asset",
	Adjust: func(item map[string]any, asset *provider.NormalizedAsset) {
		if asset.Status != "" {
			return
		}
		asset.Status = "active"
		if utils.ToBool(item["archived"]) {
			asset.Status = "archived"
		}
	},
}

// Provider pulls assets from Hudu.
type Provider struct {
	req *provider.Requester
	now func() time.Time
}

// New creates the adapter.
func New(req *provider.Requester) *Provider {
	return &Provider{req: req, now: time.Now}
}

func (p *Provider) Key() string         { return Key }
func (p *Provider) DisplayName() string { return "Hudu" }

func auth(conn *models.Connection) provider.Auth {
	return provider.Header("x-api-key", conn.Credential("api_key"))
}

// FetchAssets implements provider.Provider. Incremental pulls use Hudu's
// "start,end" updated_at range.
func (p *Provider) FetchAssets(ctx context.Context, conn *models.Connection, since *time.Time) ([]provider.NormalizedAsset, error) {
	now := p.now().UTC()
	filter := url.Values{}
	if since != nil {
		filter.Set("updated_at", since.UTC().Format(time.RFC3339)+","+now.Format(time.RFC3339))
	}
	items, err := p.list(ctx, conn, conn.Endpoint("assets", assetsPath), "assets", filter)
	return provider.NormalizeAll(items, fields, now), err
}

// DiscoverClients implements provider.Provider.
func (p *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("clients", companiesPath), "companies", nil)
	if err != nil {
		return nil, err
	}
	return provider.Clients(items, []string{"id"}, []string{"name"}), nil
}

// list pages until an empty page. Hudu may cap page_size below the requested
// value, so a short page does not mean the end.
func (p *Provider) list(ctx context.Context, conn *models.Connection, path, key string, filter url.Values) ([]any, error) {
	size := conn.PageSize(defaultPageSize)
	return provider.Paginate(ctx, p.req.MaxPages(), provider.ByPageNumber(1, 0, func(ctx context.Context, page int) ([]any, error) {
		q := url.Values{"page": {strconv.Itoa(page)}, "page_size": {strconv.Itoa(size)}}
		for k, v := range filter {
			q[k] = v
		}
		body, err := p.req.Get(ctx, conn, path, q, auth(conn))
		if err != nil {
			return nil, err
		}
		return provider.ItemsAt(body, key), nil
	}))
}

// MapWebhookPayload implements provider.Provider.
func (p *Provider) MapWebhookPayload(_ context.Context, _ *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	return provider.MapWebhook(payload, fields.WithFallback(provider.DefaultFields), p.now())
}
