package connectwise

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"asset-sync/core/models"
	"asset-sync/feature/provider"
)

// Key is the registry key of the ConnectWise Manage adapter.
const Key = "connectwise"

const (
	assetsPath      = "/v4_6_release/apis/3.0/company/configurations"
	clientsPath     = "/v4_6_release/apis/3.0/company/companies"
	defaultPageSize = 1000
)

var fields = provider.FieldMap{
	ID:          []string{"id"},
	Name:        []string{"name"},
	Hostname:    []string{"deviceIdentifier", "hostname"},
	IPAddress:   []string{"ipAddress"},
	Status:      []string{"status.name"},
	ClientID:    []string{"company.id"},
	ClientName:  []string{"company.name"},
	LastSeen:    []string{"_info.lastUpdated", "lastUpdated"},
	DefaultType: "configuration",
}

// Provider pulls company configurations from ConnectWise Manage.
type Provider struct {
	req *provider.Requester
}

// New creates the adapter.
func New(req *provider.Requester) *Provider {
	return &Provider{req: req}
}

func (p *Provider) Key() string         { return Key }
func (p *Provider) DisplayName() string { return "ConnectWise Manage" }

// Auth builds the composite scheme: Basic base64("company+public:private") plus a clientId header.
func Auth(conn *models.Connection) provider.Auth {
	company := conn.Credential("company_id")
	public := conn.Credential("public_key")
	private := conn.Credential("private_key")

	return provider.Chain(
		provider.Header("clientId", conn.Credential("client_id")),
		func(req *http.Request) error {
			if company == "" || public == "" || private == "" {
				return fmt.Errorf("connectwise company_id, public_key and private_key: %w", provider.ErrMissingCredential)
			}
			return provider.BasicToken(company + "+" + public + ":" + private)(req)
		},
	)
}

// FetchAssets implements provider.Provider.
func (p *Provider) FetchAssets(ctx context.Context, conn *models.Connection, since *time.Time) ([]provider.NormalizedAsset, error) {
	size := conn.PageSize(defaultPageSize)
	path := conn.Endpoint("assets", assetsPath)

	items, err := provider.Paginate(ctx, p.req.MaxPages(), provider.ByPageNumber(1, size, func(ctx context.Context, page int) ([]any, error) {
		q := url.Values{
			"page":     {strconv.Itoa(page)},
			"pageSize": {strconv.Itoa(size)},
		}
		if since != nil {
			q.Set("conditions", fmt.Sprintf("lastUpdated > [%s]", since.UTC().Format(time.RFC3339)))
		}
		body, err := p.req.Get(ctx, conn, path, q, Auth(conn))
		if err != nil {
			return nil, err
		}
		return provider.ItemsAt(body), nil
	}))
	return provider.NormalizeAll(items, fields, time.Now()), err
}

// DiscoverClients implements provider.Provider.
func (p *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	size := conn.PageSize(defaultPageSize)
	path := conn.Endpoint("clients", clientsPath)

	items, err := provider.Paginate(ctx, p.req.MaxPages(), provider.ByPageNumber(1, size, func(ctx context.Context, page int) ([]any, error) {
		q := url.Values{"page": {strconv.Itoa(page)}, "pageSize": {strconv.Itoa(size)}}
		body, err := p.req.Get(ctx, conn, path, q, Auth(conn))
		if err != nil {
			return nil, err
		}
		return provider.ItemsAt(body), nil
	}))
	if err != nil {
		return nil, err
	}
	return provider.Clients(items, []string{"id"}, []string{"name", "identifier"}), nil
}

// MapWebhookPayload implements provider.Provider. ConnectWise callbacks carry the
// configuration JSON-encoded in an "Entity" string field.
func (p *Provider) MapWebhookPayload(_ context.Context, _ *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	return provider.MapWebhook(unwrapEntity(payload), fields.WithFallback(provider.DefaultFields), time.Now())
}
