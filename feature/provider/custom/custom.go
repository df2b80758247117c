package custom

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"asset-sync/core/models"
	"asset-sync/feature/provider"
)

// Key is the registry key of the generic adapter.
const Key = "custom"

const (
	defaultAssetsPath  = "/assets"
	defaultClientsPath = "/clients"
	defaultPageParam   = "page"
	defaultSizeParam   = "per_page"
	defaultSinceParam  = "updated_since"
	defaultPageSize    = 1000
)

// itemKeys are tried when the connection does not name the items key.
var itemKeys = []string{"data", "items", "assets", "results", "clients"}

// Provider talks to any REST API that pages by number and returns flat items.
// Paths, parameter names and the auth scheme come from the connection.
type Provider struct {
	req *provider.Requester
}

// New creates the adapter.
func New(req *provider.Requester) *Provider {
	return &Provider{req: req}
}

func (p *Provider) Key() string         { return Key }
func (p *Provider) DisplayName() string { return "Custom REST API" }

// FetchAssets implements provider.Provider.
func (p *Provider) FetchAssets(ctx context.Context, conn *models.Connection, since *time.Time) ([]provider.NormalizedAsset, error) {
	filter := url.Values{}
	if since != nil {
		filter.Set(param(conn.Settings.SinceParam, defaultSinceParam), since.UTC().Format(time.RFC3339))
	}
	items, err := p.list(ctx, conn, conn.Endpoint("assets", defaultAssetsPath), filter)
	return provider.NormalizeAll(items, provider.DefaultFields, time.Now()), err
}

// DiscoverClients implements provider.Provider.
func (p *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("clients", defaultClientsPath), nil)
	if err != nil {
		return nil, err
	}
	return provider.Clients(items, []string{"id", "external_id", "uid"}, []string{"name", "display_name"}), nil
}

func (p *Provider) list(ctx context.Context, conn *models.Connection, path string, filter url.Values) ([]any, error) {
	size := conn.PageSize(defaultPageSize)
	pageParam := param(conn.Settings.PageParam, defaultPageParam)
	sizeParam := param(conn.Settings.SizeParam, defaultSizeParam)

	keys := itemKeys
	if conn.Settings.ItemsKey != "" {
		keys = []string{conn.Settings.ItemsKey}
	}

	return provider.Paginate(ctx, p.req.MaxPages(), provider.ByPageNumber(1, size, func(ctx context.Context, page int) ([]any, error) {
		q := url.Values{pageParam: {strconv.Itoa(page)}, sizeParam: {strconv.Itoa(size)}}
		for k, v := range filter {
			q[k] = v
		}
		body, err := p.req.Get(ctx, conn, path, q, provider.ConnectionAuth(conn))
		if err != nil {
			return nil, err
		}
		return provider.ItemsAt(body, keys...), nil
	}))
}

// MapWebhookPayload implements provider.Provider.
func (p *Provider) MapWebhookPayload(_ context.Context, _ *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	return provider.MapWebhook(payload, provider.DefaultFields, time.Now())
}

func param(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}
