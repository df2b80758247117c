package itglue

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"asset-sync/core/models"
	"asset-sync/feature/provider"
)

// Key is the registry key of the IT Glue adapter.
const Key = "itglue"

const (
	configurationsPath = "/configurations"
	organizationsPath  = "/organizations"
	defaultPageSize    = 1000
)

// IT Glue speaks JSON:API, so every field but the id lives under attributes.
var fields = provider.FieldMap{
	ID:          []string{"id"},
	Name:        []string{"attributes.name", "attributes.hostname"},
	Hostname:    []string{"attributes.hostname"},
	IPAddress:   []string{"attributes.primary-ip"},
	Status:      []string{"attributes.configuration-status-name"},
	ClientID:    []string{"attributes.organization-id"},
	ClientName:  []string{"attributes.organization-name"},
	LastSeen:    []string{"attributes.updated-at"},
	DefaultType: "configuration",
}

// Provider pulls configurations from IT Glue.
type Provider struct {
	req *provider.Requester
}

// New creates the adapter.
func New(req *provider.Requester) *Provider {
	return &Provider{req: req}
}

func (p *Provider) Key() string         { return Key }
func (p *Provider) DisplayName() string { return "IT Glue" }

func auth(conn *models.Connection) provider.Auth {
	return provider.Chain(
		provider.Header("x-api-key", conn.Credential("api_key")),
		provider.Header("Content-Type", "application/vnd.api+json"),
	)
}

// FetchAssets implements provider.Provider.
func (p *Provider) FetchAssets(ctx context.Context, conn *models.Connection, since *time.Time) ([]provider.NormalizedAsset, error) {
	q := url.Values{}
	if since != nil {
		q.Set("filter[updated_at]", since.UTC().Format(time.RFC3339)+",*")
	}
	items, err := p.list(ctx, conn, conn.Endpoint("assets", configurationsPath), q)
	return provider.NormalizeAll(items, fields, time.Now()), err
}

// DiscoverClients implements provider.Provider.
func (p *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	items, err := p.list(ctx, conn, conn.Endpoint("clients", organizationsPath), url.Values{})
	if err != nil {
		return nil, err
	}
	return provider.Clients(items, []string{"id"}, []string{"attributes.name"}), nil
}

// list walks page[number] and follows links.next when present.
func (p *Provider) list(ctx context.Context, conn *models.Connection, path string, filter url.Values) ([]any, error) {
	size := conn.PageSize(defaultPageSize)
	return provider.Paginate(ctx, p.req.MaxPages(), func(ctx context.Context, cursor string) (provider.Page, error) {
		target := path
		q := url.Values{"page[number]": {"1"}, "page[size]": {strconv.Itoa(size)}}
		for k, v := range filter {
			q[k] = v
		}
		if cursor != "" {
			target, q = cursor, nil
		}

		body, err := p.req.Get(ctx, conn, target, q, auth(conn))
		if err != nil {
			return provider.Page{}, err
		}
		return provider.Page{
			Items: provider.ItemsAt(body, "data"),
			Next:  provider.FirstString(body, "links.next"),
		}, nil
	})
}

// MapWebhookPayload implements provider.Provider.
func (p *Provider) MapWebhookPayload(_ context.Context, _ *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	return provider.MapWebhook(payload, fields.WithFallback(provider.DefaultFields), time.Now())
}
